package main

import "github.com/quillpress/blog-platform/cmd"

// @title                       Blog Platform API
// @version                     1.0
// @description                 Publishing platform with role-based access control.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cmd.Execute()
}
