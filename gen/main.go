package main

import (
	"github.com/starius/api2"
	"gitlab.com/scpcorp/candy-minter"
)

func main() {
	api2.GenerateClient(minter.GetRoutes)
	api2.GenerateOpenApiSpec(&api2.TypesGenConfig{
		OutDir: "./openapi",
		Routes: []interface{}{minter.GetRoutes},
	})
}
