// Package generation provides the interface and error taxonomy for
// producing reading explorations with an external LLM service. It abstracts
// the details of the LLM API integration (Gemini), allowing the task queue
// to run exploration requests without coupling to a specific provider.
package generation
