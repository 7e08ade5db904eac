// Package docs provides generated OpenAPI documentation.
//
// OCR Typhoon API
//
//	@title			OCR Typhoon API
//	@version		1.0
//	@description	Shipping-label PDF extraction: page OCR, field extraction and JSON/Excel export.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/natthawutgeng05/ocr-typhoon
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/ocr-typhoon/serve.go -o ./swagger --parseDependency --parseInternal
