package main

import "github.com/taskbounty/daoboard/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustInitServices()
	defer app.CloseServices()

	app.MustListenAndServeHTTP()
}
