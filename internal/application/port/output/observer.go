package output

type ExecutionObserver interface {
	OnIteration(iteration, maxIterations int)
	OnToolStart(toolName, arguments string)
	OnToolResult(toolName, result string, isError bool)
}
