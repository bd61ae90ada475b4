// Package lib provides a Go SDK for the slimeboard kanban board.
//
// It loads the same board the slimeboard CLI uses, so applications can manage
// tasks, claim experience and render the daily report without shelling out to
// the binary.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	task, err := client.AddTask(lib.AddTaskOpts{Title: "Write docs"})
//	client.MoveTask(task.ID, lib.StatusDone, 0)
//	client.ClaimAllTasks(ctx)
//
//	fmt.Println(client.Report())
//
// # Storage
//
// The board is stored on SQLite by default (~/.slimeboard/slimeboard.db). Set
// [Config].Backend to use a directory of files, a Redis server or memory only.
// Board changes are saved after [Config].SaveDebounce of inactivity and always
// on [Client.Close].
//
// # Error Handling
//
// Errors can be checked with [errors.Is]:
//
//   - [ErrNotFound]: The task does not exist.
//   - [ErrNotValid]: Invalid input or operation (e.g. claiming a task that is not done).
package lib
