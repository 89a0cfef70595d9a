package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"refcycle/config"
	"refcycle/console"
	"refcycle/publisher"
	"refcycle/server"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func main() {
	confPath := flag.String("conf", config.DefaultPath, "path to config.ini")
	interactive := flag.Bool("console", false, "run one calculation on the terminal instead of serving the dashboard")
	flag.Parse()

	cfg, err := config.Load(*confPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if err := cfg.Log.Apply(); err != nil {
		log.WithError(err).Warn("bad log level, keeping info")
	}

	if *interactive {
		if err := console.New(os.Stdin, os.Stdout).Run(context.Background()); err != nil {
			os.Exit(1)
		}
		return
	}

	var sink server.Sink
	if cfg.Mqtt.Enabled {
		p, err := publisher.Connect(cfg.Mqtt)
		if err != nil {
			log.WithError(err).Error("MQTT disabled")
		} else {
			sink = p
		}
	}

	upgrader.CheckOrigin = func(r *http.Request) bool {
		return true
	}
	s := server.NewServer(cfg, upgrader, sink)
	if err := s.Serve(); err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}
