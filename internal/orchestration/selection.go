package orchestration

// AsWorkers converts a slice of concrete workers, such as []*worker.Task,
// into the interface slice Run accepts, preserving order.
func AsWorkers[W Worker](ws []W) []Worker {
	out := make([]Worker, len(ws))
	for i, w := range ws {
		out[i] = w
	}
	return out
}

// WorkerNames returns the names of workers in launch order.
func WorkerNames(ws []Worker) []string {
	names := make([]string, len(ws))
	for i, w := range ws {
		names[i] = w.Name()
	}
	return names
}
