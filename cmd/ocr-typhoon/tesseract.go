//go:build tesseract

package main

// Links the local tesseract engine into the binary.
import _ "github.com/natthawutgeng05/ocr-typhoon/internal/providers/tesseract"
