package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host     string   `koanf:"host"`
	Port     int      `koanf:"port"`
	Database Database `koanf:"db"`
	Finance  Finance  `koanf:"finance"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Finance struct {
	// DefaultCommissionPercent is used by reports when neither the task nor its project sets a percent.
	DefaultCommissionPercent int `koanf:"defaultcommissionpercent"`
	// Timezone is used for day grouping when the user has none configured.
	Timezone     string `koanf:"timezone"`
	CacheEnabled bool   `koanf:"cacheenabled"`
}

func Defaults() Application {
	return Application{
		Host: "http://localhost:3000",
		Port: 8181,
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "ledger",
			Pass:   "",
			Name:   "ledger",
			Schema: "ledger",
		},
		Finance: Finance{
			DefaultCommissionPercent: 10,
			Timezone:                 "UTC",
			CacheEnabled:             true,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "LEDGER_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "LEDGER_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
