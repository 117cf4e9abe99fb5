package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"
)

var (
	addr = flag.String("addr", "localhost:8080", "collaboration server address")
	room = flag.String("room", "workspace:default", "room to join")
	kind = flag.String("kind", "workspace", "room kind")
)

type event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func main() {
	flag.Parse()

	displayName := getDisplayName()
	userID := "cli-" + displayName

	conn := connectWebSocket()
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})
	go readEvents(conn, done)

	send(conn, "authenticate", map[string]any{
		"userId":      userID,
		"displayName": displayName,
		"role":        "member",
	})
	send(conn, "join_room", map[string]any{
		"roomId": *room,
		"kind":   *kind,
	})

	fmt.Println("Write Messages (Press Enter to Send):")
	writeMessages(conn, interrupt, done)
}

func getDisplayName() string {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("Enter your name: ")
	scanner.Scan()
	return scanner.Text()
}

func connectWebSocket() *websocket.Conn {
	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Failed to connect to collaboration server: %v", err)
	}
	log.Println("Connected.")
	return conn
}

func send(conn *websocket.Conn, eventType string, payload any) {
	if err := conn.WriteJSON(map[string]any{"type": eventType, "payload": payload}); err != nil {
		log.Printf("Error sending %s: %v", eventType, err)
	}
}

func readEvents(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		var evt event
		if err := conn.ReadJSON(&evt); err != nil {
			log.Printf("Error reading event: %v", err)
			return
		}

		switch evt.Type {
		case "new_message":
			var msg struct {
				SenderName string `json:"senderName"`
				Content    string `json:"content"`
				Timestamp  string `json:"timestamp"`
			}
			_ = json.Unmarshal(evt.Payload, &msg)
			fmt.Printf("\n[%s] %s: %s\n", msg.Timestamp, msg.SenderName, msg.Content)
		case "user_joined_room", "user_left_room", "user_connected", "user_disconnected":
			var p struct {
				UserID string `json:"userId"`
			}
			_ = json.Unmarshal(evt.Payload, &p)
			fmt.Printf("\n* %s: %s\n", evt.Type, p.UserID)
		case "typing_indicator", "cursor_move", "presence_update", "heartbeat_ack":
			// Quiet by default.
		case "error":
			fmt.Printf("\n! server error: %s\n", string(evt.Payload))
		case "session_evicted":
			fmt.Printf("\n! session evicted: %s\n", string(evt.Payload))
			return
		default:
			fmt.Printf("\n* %s\n", evt.Type)
		}
	}
}

func writeMessages(conn *websocket.Conn, interrupt chan os.Signal, done chan struct{}) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection...")
			err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Printf("Error during close: %v", err)
			}
			return
		default:
			if scanner.Scan() {
				content := scanner.Text()
				if content == "" {
					continue
				}

				send(conn, "send_message", map[string]any{
					"roomId":  *room,
					"kind":    "chat",
					"content": content,
				})
			}
		}
	}
}
