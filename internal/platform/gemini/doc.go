// Package gemini implements the generation.Explorer interface using
// Google's Gemini API.
package gemini
