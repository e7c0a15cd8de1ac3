package websocket

import (
	"testing"
	"time"

	"github.com/segmentio/encoding/json"
)

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case b, ok := <-c.Send:
		if !ok {
			t.Fatal("send channel closed")
		}
		var msg Message
		if err := json.Unmarshal(b, &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestHubPublish(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	user := NewClient(hub, nil, TopicAll)
	admin := NewClient(hub, nil, TopicAdmin)
	hub.Register <- user
	hub.Register <- admin

	hub.Publish(ActionServersUpdated, []string{"a"})
	if msg := receive(t, user); msg.Action != ActionServersUpdated {
		t.Errorf("user: expected %s, got %s", ActionServersUpdated, msg.Action)
	}
	if msg := receive(t, admin); msg.Action != ActionServersUpdated {
		t.Errorf("admin: expected %s, got %s", ActionServersUpdated, msg.Action)
	}

	hub.PublishTo(TopicAdmin, ActionStatsUpdated, nil)
	if msg := receive(t, admin); msg.Action != ActionStatsUpdated {
		t.Errorf("admin: expected %s, got %s", ActionStatsUpdated, msg.Action)
	}
	select {
	case b := <-user.Send:
		t.Errorf("user should not receive admin topic, got %s", b)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	c := NewClient(hub, nil, TopicAll)
	hub.Register <- c
	hub.Unregister <- c

	select {
	case _, ok := <-c.Send:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestReplyAfterUnregisterAndStop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := NewClient(hub, nil, TopicAll)
	hub.Join(c)
	if !c.Reply(NewMessage(ActionPong, nil)) {
		t.Fatal("expected reply to a live client to be queued")
	}
	if msg := receive(t, c); msg.Action != ActionPong {
		t.Errorf("expected %s, got %s", ActionPong, msg.Action)
	}

	// Fill the buffer; further replies are dropped instead of blocking.
	for i := 0; i < cap(c.Send); i++ {
		c.Reply(NewMessage(ActionPong, nil))
	}
	if c.Reply(NewMessage(ActionPong, nil)) {
		t.Error("expected reply to a full buffer to be dropped")
	}

	other := NewClient(hub, nil, TopicAdmin)
	hub.Join(other)
	hub.Stop()

	// Stop closes Send asynchronously; Reply must never panic meanwhile.
	deadline := time.After(2 * time.Second)
	for other.Reply(NewMessage(ActionPong, nil)) {
		select {
		case <-other.Send:
		case <-deadline:
			t.Fatal("client was not closed by Stop")
		}
	}
	if other.Reply(NewMessage(ActionPong, nil)) {
		t.Error("expected reply after Stop to be dropped")
	}

	done := make(chan struct{})
	go func() {
		hub.Leave(other)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Leave blocked after Stop")
	}
}
