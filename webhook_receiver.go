//go:build ignore

// Dev sink for the IP-change audit webhook. Run it next to the auth server:
//
//	WEBHOOK_URL=http://localhost:9090 go run webhook_receiver.go
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
)

type ipChangeNotice struct {
	UserID    int64  `json:"user_id"`
	OldIP     string `json:"old_ip"`
	NewIP     string `json:"new_ip"`
	UserAgent string `json:"user_agent"`
}

func main() {
	addr := os.Getenv("WEBHOOK_RECEIVER_ADDR")
	if addr == "" {
		addr = ":9090"
	}

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		var notice ipChangeNotice
		if err := json.NewDecoder(r.Body).Decode(&notice); err != nil {
			http.Error(w, "bad payload", http.StatusBadRequest)
			return
		}
		log.Printf("ip change: user=%d %s -> %s agent=%q",
			notice.UserID, notice.OldIP, notice.NewIP, notice.UserAgent)
		w.WriteHeader(http.StatusNoContent)
	})

	log.Printf("webhook receiver listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}
