// Command server runs the Barefoot Nomad HTTP API.
//
//	@title						Barefoot Nomad API
//	@version					1.0
//	@description				Travel requests, accommodation booking and account management for company nomads.
//	@BasePath					/api/v1
//	@schemes					http https
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Access token as "Bearer <token>"
package main
