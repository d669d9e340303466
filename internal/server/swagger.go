package server

//go:generate swag init -g internal/server/server.go -o docs/swagger

// @title geoaudit API
// @version 0.1
// @description Interactive documentation for the geoaudit API surface.
// @contact.name geoaudit Maintainers
// @contact.url https://github.com/huiren/geoaudit
// @BasePath /
