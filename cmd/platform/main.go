// Command platform runs the gateway, users, orders and business-manager
// services.
//
//	@title						OpsDesk Platform API
//	@version					1.0
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

func main() {
	Execute()
}
