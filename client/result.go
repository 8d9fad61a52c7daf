package client

// Status tags a Result as in-flight, succeeded or failed.
type Status int

const (
	Loading Status = iota
	Success
	Error
)

// Result is one emission on a repository channel. Every call emits exactly
// one Loading result and then exactly one Success or Error result, after
// which the channel is closed.
type Result[T any] struct {
	Status Status
	Data   T
	Err    error
}

func loading[T any]() Result[T] {
	return Result[T]{Status: Loading}
}

func success[T any](data T) Result[T] {
	return Result[T]{Status: Success, Data: data}
}

func failure[T any](err error) Result[T] {
	return Result[T]{Status: Error, Err: err}
}

// emit runs fn on its own goroutine and streams the Loading/terminal pair.
// The channel is buffered so a caller that stops reading after cancellation
// never strands the goroutine.
func emit[T any](fn func() (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 2)
	out <- loading[T]()
	go func() {
		defer close(out)
		data, err := fn()
		if err != nil {
			out <- failure[T](err)
			return
		}
		out <- success(data)
	}()
	return out
}
