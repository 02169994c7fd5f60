package discord

import "errors"

var (
	// ErrMissingToken is returned when the bot token is not configured
	ErrMissingToken = errors.New("discord bot token is required")
	// ErrRequestFailed is returned when a Discord API request cannot be sent
	ErrRequestFailed = errors.New("discord request failed")
	// ErrUnexpectedStatus is returned when Discord answers with a non-success status
	ErrUnexpectedStatus = errors.New("unexpected discord response status")
	// ErrDecodeResponse is returned when a Discord response body cannot be decoded
	ErrDecodeResponse = errors.New("failed to decode discord response")
)
