package io

import (
	"errors"

	"github.com/ezrec/xe/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelClosed = errors.New(f("channel closed"))
)
