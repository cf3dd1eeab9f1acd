package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
	"github.com/sleepguard/sleepguard/internal/conf"
	"github.com/sleepguard/sleepguard/internal/data"
)

func main() {
	if _, err := conf.LoadEnvFile(""); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) < 4 {
		fmt.Println("Usage: send-notification <user_id> <username> <message> [message_id]")
		os.Exit(1)
	}

	userID, err := strconv.ParseInt(os.Args[1], 10, 64)
	if err != nil {
		fmt.Printf("Error: invalid user id %q\n", os.Args[1])
		os.Exit(1)
	}

	msgID := time.Now().Unix()
	if len(os.Args) > 4 {
		if msgID, err = strconv.ParseInt(os.Args[4], 10, 64); err != nil {
			fmt.Printf("Error: invalid message id %q\n", os.Args[4])
			os.Exit(1)
		}
	}

	relayURL := os.Getenv("NOTIFICATION_BOT_URL")
	if relayURL == "" {
		relayURL = "http://localhost:5000"
	}

	n := &domain.Notification{
		UserID:      userID,
		UserName:    os.Args[2],
		Username:    os.Args[2],
		MessageText: os.Args[3],
		MessageID:   msgID,
		Timestamp:   time.Now().Format(domain.TimestampLayout),
	}

	notifier := data.NewRelayNotifier(relayURL, 0)
	if err := notifier.Notify(context.Background(), n); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Notification sent successfully!")
}
