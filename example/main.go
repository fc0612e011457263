// Command example drives the history/undo core through a few typical
// editing scenarios, printing the JSON Patch each increment produces.
package main

import (
	"fmt"

	history "github.com/driftcanvas/history"
)

func truncate(s string) string {
	if len(s) > 160 {
		return s[:160] + "..."
	}
	return s
}

func printPatch(label string, p history.Patch) {
	data, _ := p.JSON()
	fmt.Printf("%s: %s\n", label, truncate(string(data)))
}

func main() {
	fmt.Println("=== history demo ===")

	store := history.NewStore(history.Config{})
	hist := history.NewHistory()
	broadcaster := history.NewBroadcaster[string](store)
	broadcaster.Connect("alice", nil)
	broadcaster.Connect("bob", nil)
	broadcaster.SetBroadcastCallback(func(patches map[string]history.Patch) {
		for id, p := range patches {
			printPatch(id, p)
		}
	})

	store.Listen(func(ec history.ElementsChange, ac history.AppStateChange) {
		hist.Record(history.HistoryEntry{Elements: ec, AppState: ac})
	})

	elements := history.NewElementsMap()
	appState := history.ObservedAppState{ViewBackgroundColor: "#ffffff"}
	var nonce int64

	capture := func(label string) {
		store.ResumeRecording()
		n := nonce
		store.Capture(elements, appState, &n, "")
		fmt.Println("---", label, "---")
	}

	// First observation: the scene is empty, so only the background colour
	// differs from the store's zero state; that app-state increment is
	// broadcast and recorded, and the scene nonce becomes the baseline.
	capture("initial sync")

	// Draw a rectangle.
	nonce++
	elements.Set("rect-1", history.DrawingElement{
		VersionNonce: nonce,
		Props:        history.Props{"type": "rectangle", "x": 10.0, "y": 10.0, "width": 100.0, "height": 50.0},
	})
	appState.SelectedElementIDs = map[string]bool{"rect-1": true}
	capture("draw rectangle")

	// Move it.
	nonce++
	el, _ := elements.Get("rect-1")
	el.VersionNonce = nonce
	el.Props = history.Props{"type": "rectangle", "x": 40.0, "y": 10.0, "width": 100.0, "height": 50.0}
	elements.Set("rect-1", el)
	capture("move rectangle")

	fmt.Println("\n--- undo move ---")
	if result, ok := hist.Undo(elements, appState); ok {
		elements, appState = result.Elements, result.AppState
		store.OnlyUpdateSnapshot()
		nonce++ // host-side: undo itself does not bump the element's nonce
		n := nonce
		store.Capture(elements, appState, &n, "")
	}
	fmt.Printf("rect-1 now at x=%v\n", mustGet(elements, "rect-1").Props["x"])

	fmt.Println("\n--- redo move ---")
	if result, ok := hist.Redo(elements, appState); ok {
		elements, appState = result.Elements, result.AppState
		store.OnlyUpdateSnapshot()
		nonce++
		n := nonce
		store.Capture(elements, appState, &n, "")
	}
	fmt.Printf("rect-1 now at x=%v\n", mustGet(elements, "rect-1").Props["x"])

	fmt.Println("\n=== done ===")
}

func mustGet(m *history.ElementsMap, id string) history.DrawingElement {
	el, _ := m.Get(id)
	return el
}
