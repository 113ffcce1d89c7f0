package api

// DefaultBaseURL is where `picker serve` listens unless told otherwise.
const DefaultBaseURL = "http://localhost:8000"
