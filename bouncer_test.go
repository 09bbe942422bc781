package mascot

import (
	"bytes"
	"testing"
)

func TestBouncerLiftsOnLoudAudio(t *testing.T) {
	var u Undo
	feed := &AudioFeed{}
	b := NewBouncer(feed, &u, "bounce")
	ctx := &RenderContext{World: identityTransform}

	b.Render(ctx, 1.0/60, nil, nil)
	if b.bounce != 0 {
		t.Fatal("quiet audio must not bounce")
	}

	feed.Publish(0.8)
	b.Render(ctx, 0.06, nil, nil)
	if b.bounce <= 0 {
		t.Error("loud audio should start a lift")
	}
	if b.Y != 0 {
		t.Error("the lift must not leak into the persisted Y")
	}
}

func TestBouncerSettlesBackDown(t *testing.T) {
	var u Undo
	feed := &AudioFeed{}
	b := NewBouncer(feed, &u, "bounce")
	ctx := &RenderContext{World: identityTransform}

	feed.Publish(0.8)
	b.Render(ctx, 1.0/60, nil, nil)
	feed.Publish(0) // goes quiet mid-bounce
	for i := 0; i < 60; i++ {
		b.Render(ctx, 1.0/60, nil, nil)
	}
	if b.bounce != 0 || b.seq != nil {
		t.Errorf("bounce = %v, want settled at rest", b.bounce)
	}
}

func TestBouncerRetriggersWhileLoud(t *testing.T) {
	var u Undo
	feed := &AudioFeed{}
	b := NewBouncer(feed, &u, "bounce")
	ctx := &RenderContext{World: identityTransform}

	feed.Publish(0.8)
	for i := 0; i < 60; i++ {
		b.Render(ctx, 1.0/60, nil, nil)
	}
	if b.seq == nil {
		t.Error("sustained loudness should chain bounces")
	}
}

func TestBouncerBelowTriggerStaysStill(t *testing.T) {
	var u Undo
	feed := &AudioFeed{}
	b := NewBouncer(feed, &u, "bounce")
	ctx := &RenderContext{World: identityTransform}

	feed.Publish(bounceTrigger)
	b.Render(ctx, 1.0/60, nil, nil)
	if b.seq != nil {
		t.Error("the trigger level itself must not bounce")
	}
}

func TestBouncerSaveLoadKeepsHeight(t *testing.T) {
	var u Undo
	feed := &AudioFeed{}
	b := NewBouncer(feed, &u, "bounce")
	b.Height = 75

	var buf bytes.Buffer
	e := NewEncoder(&buf)
	b.Save(e)
	if err := e.Err(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	b2 := NewBouncer(feed, &u, "bounce")
	b2.Load(NewDecoder(&buf))
	if b2.Height != 75 {
		t.Errorf("Height = %v, want 75", b2.Height)
	}
}

func TestBouncerDisposeUnregisters(t *testing.T) {
	var u Undo
	feed := &AudioFeed{}
	b := NewBouncer(feed, &u, "bounce")
	b.Dispose()
	feed.Publish(0.9)
	if b.level != 0 {
		t.Error("disposed bouncer still received audio")
	}
}
