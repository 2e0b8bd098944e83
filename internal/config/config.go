package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"log"
)

type Config struct {
	Server Server
	Tasks  Tasks
}

type Server struct {
	Port      int    `env:"Server_Port" envDefault:"8080"`
	StaticDir string `env:"Server_StaticDir" envDefault:"web"`
}

type Tasks struct {
	File            string        `env:"Tasks_File" envDefault:"web/tasks.json"`
	DefaultDuration time.Duration `env:"Tasks_DefaultDuration" envDefault:"300ms"`
}

func Load() *Config {
	_ = godotenv.Load()

	var c Config
	if err := env.Parse(&c); err != nil {
		log.Fatal(err)
	}

	return &c
}
