package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/crestmont/site-api/api/handlers"

	"go.uber.org/zap"

	"github.com/crestmont/site-api/config"
)

func main() {
	// load a local .env if present; deployed environments set vars directly
	_ = godotenv.Load()

	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil { //initialize cms client, session store and router
		log.Fatal(err)
	}

	zap.S().Infow("site-api is up and running",
		"port", a.Config.Port,
		"cms", a.Config.CMSBaseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", a.Config.Port), a.Router))
}
