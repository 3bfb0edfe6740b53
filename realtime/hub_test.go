package realtime

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send:  make(chan []byte, 10),
		Topic: "stock",
	}

	hub.register <- client

	msg := StockUpdate{Type: "stock_update", ProductID: "1", Stock: 7}
	data, _ := json.Marshal(msg)
	hub.broadcast <- broadcastMsg{Topic: "stock", Data: data}

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client
}

func TestHubTopicIsolation(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	stockClient := &Client{Send: make(chan []byte, 10), Topic: "stock"}
	orderClient := &Client{Send: make(chan []byte, 10), Topic: "orders"}
	hub.register <- stockClient
	hub.register <- orderClient

	hub.Publish("orders", OrderUpdate{Type: "order_update", OrderID: "o-1", Status: "shipped"})

	select {
	case got := <-orderClient.Send:
		var upd OrderUpdate
		if err := json.Unmarshal(got, &upd); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if upd.OrderID != "o-1" || upd.Status != "shipped" {
			t.Fatalf("unexpected update: %+v", upd)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for order update")
	}

	select {
	case got := <-stockClient.Send:
		t.Fatalf("stock subscriber received foreign topic message: %s", got)
	case <-time.After(50 * time.Millisecond):
	}
}
