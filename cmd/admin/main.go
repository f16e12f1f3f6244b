// Admin CLI for inspecting and resetting the persisted room snapshot.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	"roomchat/backend/internal/config"
	"roomchat/backend/internal/storage"
)

func main() {
	cfg := config.Load()
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store := storage.NewService(rdb)
	ctx := context.Background()

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <rooms|dump|clear>")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "rooms":
		rooms, err := store.LoadRooms(ctx)
		if err != nil {
			log.Fatalf("failed to load rooms: %v", err)
		}
		if len(rooms) == 0 {
			fmt.Println("No persisted rooms.")
			return
		}
		for _, room := range rooms {
			fmt.Printf("%s  code=%d  name=%q  users=%d  messages=%d\n",
				room.ID, room.RoomCode, room.RoomName, len(room.Users), len(room.Messages))
		}
	case "dump":
		rooms, err := store.LoadRooms(ctx)
		if err != nil {
			log.Fatalf("failed to load rooms: %v", err)
		}
		data, err := json.MarshalIndent(rooms, "", "  ")
		if err != nil {
			log.Fatalf("failed to encode rooms: %v", err)
		}
		fmt.Println(string(data))
	case "clear":
		if err := store.ClearRooms(ctx); err != nil {
			log.Fatalf("failed to clear rooms: %v", err)
		}
		fmt.Println("Persisted rooms cleared.")
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}
