package session

import "testing"

func TestAlertLogPrependsNewestFirst(t *testing.T) {
	l := NewAlertLog()
	l.Push(Alert{Heading: "first"})
	l.Push(Alert{Heading: "second"}, Alert{Heading: "third"})

	all := l.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(all))
	}
	if all[0].Heading != "second" || all[1].Heading != "third" || all[2].Heading != "first" {
		t.Fatalf("unexpected order: %+v", all)
	}
}

func TestAlertLogNavigationClamps(t *testing.T) {
	l := NewAlertLog()
	l.Push(Alert{Heading: "a"}, Alert{Heading: "b"})

	l.Prev()
	if l.Index() != 0 {
		t.Fatalf("Prev below zero not clamped: %d", l.Index())
	}

	l.Next()
	l.Next()
	l.Next()
	if l.Index() != 1 {
		t.Fatalf("Next past end not clamped: %d", l.Index())
	}

	cur, ok := l.Current()
	if !ok || cur.Heading != "b" {
		t.Fatalf("unexpected current: %+v ok=%v", cur, ok)
	}
}

func TestAlertLogDismissAll(t *testing.T) {
	l := NewAlertLog()
	l.Push(Alert{Heading: "a"})
	l.DismissAll()

	if l.Len() != 0 {
		t.Fatalf("expected empty log, got %d", l.Len())
	}
	if _, ok := l.Current(); ok {
		t.Fatal("Current() on empty log must report false")
	}
}

func TestAlertLogEmptyNavigationIsSafe(t *testing.T) {
	l := NewAlertLog()
	l.Next()
	l.Prev()
	if l.Index() != 0 {
		t.Fatalf("unexpected index on empty log: %d", l.Index())
	}
}
