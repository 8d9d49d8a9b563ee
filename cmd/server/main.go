// Entry point
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kester2000/lgtbot/bot"
	"github.com/kester2000/lgtbot/conf"
	"github.com/kester2000/lgtbot/db"
	"github.com/kester2000/lgtbot/proto"

	_ "github.com/kester2000/lgtbot/games/liedice"
	_ "github.com/kester2000/lgtbot/games/mahjong"
)

// Default file name for the configuration file
const defconf = "lgtbot.toml"

func main() {
	var (
		confFile = flag.String("conf", defconf, "Name of configuration file")
		dumpConf = flag.Bool("dump-config", false, "Dump default configuration")
	)

	flag.Parse()
	if flag.NArg() != 0 {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Too many arguments passed to %s.\nUsage:\n",
			os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load the configuration from disk (if available)
	config, err := conf.Open(*confFile)
	if err != nil {
		if !os.IsNotExist(err) || *confFile != defconf {
			log.Fatal(err)
		}
		config = conf.Default()
	}
	config.Debug.Println("Debug logging has been enabled")

	// Dump the configuration onto the disk if requested
	if *dumpConf {
		err = config.Dump(os.Stdout)
		if err != nil {
			log.Fatalln("Failed to dump default configuration:", err)
		}
		os.Exit(0)
	}

	// Open the result store
	database, err := db.Open(config.Database)
	if err != nil {
		log.Fatalln("Failed to open database:", err)
	}
	defer database.Close()

	// Accept adapter connections and route their requests
	gateway := proto.NewGateway(config)
	gateway.Bind(bot.New(config, database, gateway))
	config.Register(gateway)

	// Launch the bot
	config.Start()
}
