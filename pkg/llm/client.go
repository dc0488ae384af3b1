package llm

// Client is the single interface the analysis core drives. Generate
// sends one prompt to the local inference server and blocks until the
// full response text is available. Any error returned here is the
// failure mode the orchestrator isolates per section or per category.
type Client interface {
	Generate(prompt string) (string, error)
}

// systemMessage frames every request sent to the model.
const systemMessage = "You are a helpful assistant that provides detailed analysis of Windows system state data."
