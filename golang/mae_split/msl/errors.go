package msl

import (
	"errors"
	"log"
)

//Sentinel errors of the split evaluation core. Callers classify failures
//with errors.Is; call sites wrap these with additional context.
var (
	//ErrInvalidInput is returned when an input sequence is too short to work with.
	ErrInvalidInput = errors.New("invalid input")

	//ErrLengthMismatch is returned when a feature array and a target array differ in length.
	ErrLengthMismatch = errors.New("length mismatch")

	//ErrNoValidSplit is returned when every candidate threshold leaves one side empty.
	ErrNoValidSplit = errors.New("no valid split")

	//ErrNoCoverage is returned when no row ever stayed out of bag.
	ErrNoCoverage = errors.New("no out-of-bag coverage")
)

//HandleError panics on a non-nil error. It is meant for drivers and dump
//helpers where an error has no recovery path.
func HandleError(err error) {
	if err != nil {
		log.Panic(err)
	}
}
