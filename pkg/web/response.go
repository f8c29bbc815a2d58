// Package web defines common response components for the HTTP API.
package web

// JSONError provides type for explicit json encoded error response.
type JSONError struct {
	Error string `json:"error"`
}

// Error wraps a given err into a json friendly struct.
func Error(err error) JSONError {
	return JSONError{Error: err.Error()}
}

// Message provides type for a short json encoded status message.
type Message struct {
	Message string `json:"message"`
}

// Msg wraps a given text into a json friendly struct.
func Msg(text string) Message {
	return Message{Message: text}
}
