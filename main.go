package main

import (
	"github.com/iotaledger/zerostake/components/app"
)

func main() {
	app.App().Run()
}
