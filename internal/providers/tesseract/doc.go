// Package tesseract provides a local OCR engine backed by libtesseract.
//
// The engine is only compiled with the "tesseract" build tag, since it needs
// the tesseract and leptonica C libraries. When linked in it registers the
// "tesseract" provider type with the providers registry.
package tesseract
