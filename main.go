package main

import (
	"fmt"
	"os"

	"discord-forum-slack/bot"
	"discord-forum-slack/config"
	"discord-forum-slack/handlers"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	bot.Run(cfg, handlers.Register)
}
