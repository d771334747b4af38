// Package docs provides generated OpenAPI documentation.
//
// DocuStruct API
//
//	@title			DocuStruct API
//	@version		1.0
//	@description	Heuristic PDF outline analysis: title, H1/H2 sections and reading stats.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/docustruct
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/docustruct/serve.go -o ./swagger --parseDependency --parseInternal
