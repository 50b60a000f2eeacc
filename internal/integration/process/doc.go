// Package process supervises the short-lived formatter subprocesses spawned
// by the format pipeline.
//
// Every process is started with three independent pipes (stdin, stdout,
// stderr). The supervisor never reads from them; the caller owns the pipes
// and must drain stdout and stderr before calling Wait, because Wait closes
// the read ends once the child exits.
//
//	supervisor := process.NewSupervisor()
//	defer supervisor.Shutdown(2 * time.Second)
//
//	proc, err := supervisor.Start("black", exec.Command("black", "-"))
//	if err != nil {
//	    return err
//	}
//	// write proc.Stdin, drain proc.Stdout and proc.Stderr concurrently
//	code, err := proc.Wait()
//
// Exit is reported through Done, ExitCode and an optional exit callback.
// The supervisor never prompts or notifies on exit by itself; Shutdown
// terminates whatever is still running when the editor goes away.
//
// Both Supervisor and Process are safe for concurrent use.
package process
