package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
)

const sheetKeyPrefix = "sheet:"

func main() {
	redisURL := os.Getenv("KEEPER_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning for corrupted investigator sheets...")

	iter := client.Scan(ctx, 0, sheetKeyPrefix+"*", 0).Iterator()

	var corruptedKeys []string
	var checkedCount int

	for iter.Next(ctx) {
		key := iter.Val()
		checkedCount++

		data, err := client.Get(ctx, key).Bytes()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		if problem := inspect(key, data); problem != "" {
			fmt.Printf("✗ %s: %s\n", key, problem)
			corruptedKeys = append(corruptedKeys, key)
		}
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d keys, found %d corrupted entries\n", checkedCount, len(corruptedKeys))

	if len(corruptedKeys) == 0 {
		fmt.Println("No corrupted data found!")
		return
	}

	fmt.Println("\nCorrupted keys:")
	for _, key := range corruptedKeys {
		fmt.Printf("  - %s\n", key)
	}

	fmt.Print("\nDo you want to DELETE these corrupted entries? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	for _, key := range corruptedKeys {
		roomID, playerID, _ := splitKey(key)
		pipe := client.TxPipeline()
		pipe.Del(ctx, key)
		if roomID != "" {
			pipe.SRem(ctx, "sheet_room:"+roomID, playerID)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			fmt.Printf("Failed to delete %s: %v\n", key, err)
			continue
		}
		fmt.Printf("Deleted %s\n", key)
	}
	fmt.Println("\nCleanup complete!")
}

// inspect returns why a stored sheet cannot be loaded, or "" when it is fine
func inspect(key string, data []byte) string {
	var sheet entities.CharacterSheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return "invalid JSON"
	}

	roomID, playerID, ok := splitKey(key)
	if !ok {
		return "malformed key"
	}
	if sheet.RoomID != roomID || sheet.PlayerID != playerID {
		return fmt.Sprintf("stored ids %s/%s do not match the key", sheet.RoomID, sheet.PlayerID)
	}
	for name, v := range sheet.Attributes {
		if v < 0 {
			return fmt.Sprintf("negative attribute %s=%d", name, v)
		}
	}
	if sheet.Sanity < 0 || sheet.Luck < 0 {
		return "negative sanity or luck"
	}
	return ""
}

// splitKey reads sheet:{room_id}:{player_id}. Room ids never contain a colon
// in the platforms we serve, player ids might.
func splitKey(key string) (roomID, playerID string, ok bool) {
	rest := strings.TrimPrefix(key, sheetKeyPrefix)
	roomID, playerID, ok = strings.Cut(rest, ":")
	return roomID, playerID, ok && roomID != "" && playerID != ""
}
