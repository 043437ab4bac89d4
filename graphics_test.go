package vtcore

import (
	"testing"
)

func TestGraphicsManager_Store(t *testing.T) {
	m := NewGraphicsManager()

	data := make([]byte, 100)
	id := m.Store(10, 10, data)

	if id != 1 {
		t.Errorf("expected id 1, got %d", id)
	}
	if m.ImageCount() != 1 {
		t.Errorf("expected 1 image, got %d", m.ImageCount())
	}
	if m.UsedMemory() != 100 {
		t.Errorf("expected 100 bytes, got %d", m.UsedMemory())
	}
}

func TestGraphicsManager_Deduplication(t *testing.T) {
	m := NewGraphicsManager()

	data := []byte("test image data")
	id1 := m.Store(10, 10, data)
	id2 := m.Store(10, 10, data) // Same data

	if id1 != id2 {
		t.Errorf("expected same id for duplicate, got %d and %d", id1, id2)
	}
	if m.ImageCount() != 1 {
		t.Errorf("expected 1 image (deduplicated), got %d", m.ImageCount())
	}
}

func TestGraphicsManager_StoreWithID(t *testing.T) {
	m := NewGraphicsManager()

	data := make([]byte, 50)
	m.StoreWithID(42, 5, 5, data)

	img := m.Image(42)
	if img == nil {
		t.Fatal("expected image with id 42")
	}
	if img.Width != 5 || img.Height != 5 {
		t.Errorf("expected 5x5, got %dx%d", img.Width, img.Height)
	}
}

func TestGraphicsManager_Place(t *testing.T) {
	m := NewGraphicsManager()

	data := make([]byte, 100)
	imageID := m.Store(10, 10, data)

	placement := &ImagePlacement{
		ImageID: imageID,
		Row:     0,
		Col:     0,
		Cols:    5,
		Rows:    5,
	}

	placementID := m.Place(placement)
	if placementID != 1 {
		t.Errorf("expected placement id 1, got %d", placementID)
	}
	if m.PlacementCount() != 1 {
		t.Errorf("expected 1 placement, got %d", m.PlacementCount())
	}
}

func TestGraphicsManager_DeleteImage(t *testing.T) {
	m := NewGraphicsManager()

	data := make([]byte, 100)
	id := m.Store(10, 10, data)

	m.DeleteImage(id)

	if m.ImageCount() != 0 {
		t.Errorf("expected 0 images after delete, got %d", m.ImageCount())
	}
	if m.UsedMemory() != 0 {
		t.Errorf("expected 0 bytes after delete, got %d", m.UsedMemory())
	}
}

func TestGraphicsManager_Clear(t *testing.T) {
	m := NewGraphicsManager()

	data := make([]byte, 100)
	imageID := m.Store(10, 10, data)
	m.Place(&ImagePlacement{ImageID: imageID, Row: 0, Col: 0, Cols: 1, Rows: 1})

	m.Clear()

	if m.ImageCount() != 0 {
		t.Errorf("expected 0 images after clear, got %d", m.ImageCount())
	}
	if m.PlacementCount() != 0 {
		t.Errorf("expected 0 placements after clear, got %d", m.PlacementCount())
	}
}

func TestGraphicsManager_Prune(t *testing.T) {
	m := NewGraphicsManager()
	m.SetMaxMemory(150) // Low limit

	// Store 2 images of 100 bytes each - should trigger pruning
	data := make([]byte, 100)
	m.Store(10, 10, data)

	data2 := make([]byte, 100)
	data2[0] = 1 // Different data
	m.Store(10, 10, data2)

	// At this point, we're at 200 bytes with 150 limit
	// Pruning should have removed unreferenced images
	if m.UsedMemory() > 150 {
		// This might not prune if images are still referenced
		// Just verify it doesn't crash
	}
}

func TestGraphicsManager_Placements(t *testing.T) {
	m := NewGraphicsManager()

	data := make([]byte, 100)
	imageID := m.Store(10, 10, data)

	m.Place(&ImagePlacement{ImageID: imageID, Row: 0, Col: 0, Cols: 1, Rows: 1})
	m.Place(&ImagePlacement{ImageID: imageID, Row: 1, Col: 1, Cols: 2, Rows: 2})

	placements := m.Placements()
	if len(placements) != 2 {
		t.Errorf("expected 2 placements, got %d", len(placements))
	}
}

func TestGraphicsManager_DeletePlacementsByPosition(t *testing.T) {
	m := NewGraphicsManager()

	data := make([]byte, 100)
	imageID := m.Store(10, 10, data)

	m.Place(&ImagePlacement{ImageID: imageID, Row: 0, Col: 0, Cols: 2, Rows: 2})
	m.Place(&ImagePlacement{ImageID: imageID, Row: 5, Col: 5, Cols: 2, Rows: 2})

	m.DeletePlacementsByPosition(0, 0) // Should delete first placement

	if m.PlacementCount() != 1 {
		t.Errorf("expected 1 placement after delete, got %d", m.PlacementCount())
	}
}

func TestGraphicsManager_DeletePlacementsInRow(t *testing.T) {
	m := NewGraphicsManager()

	data := make([]byte, 100)
	imageID := m.Store(10, 10, data)

	m.Place(&ImagePlacement{ImageID: imageID, Row: 0, Col: 0, Cols: 2, Rows: 2})
	m.Place(&ImagePlacement{ImageID: imageID, Row: 5, Col: 5, Cols: 2, Rows: 2})

	m.DeletePlacementsInRow(1) // Row 1 intersects first placement (rows 0-1)

	if m.PlacementCount() != 1 {
		t.Errorf("expected 1 placement after delete, got %d", m.PlacementCount())
	}
}

func TestCellImage(t *testing.T) {
	cell := NewCell()

	if cell.HasImage() {
		t.Error("new cell should not have image")
	}

	cell.Image = &CellImage{
		PlacementID: 1,
		ImageID:     1,
		U0:          0.0,
		V0:          0.0,
		U1:          1.0,
		V1:          1.0,
		ZIndex:      -1,
	}

	if !cell.HasImage() {
		t.Error("cell should have image after setting")
	}

	cell.Reset()

	if cell.HasImage() {
		t.Error("cell should not have image after reset")
	}
}

func TestGraphicsManager_PlaceExplicitIDAdvancesCounter(t *testing.T) {
	m := NewGraphicsManager()

	p := &ImagePlacement{ID: 50, ImageID: 1, Row: 0, Col: 0, Rows: 1, Cols: 1}
	if got := m.Place(p); got != 50 {
		t.Errorf("expected placement id 50, got %d", got)
	}

	auto := &ImagePlacement{ImageID: 1, Row: 1, Col: 0, Rows: 1, Cols: 1}
	if got := m.Place(auto); got != 51 {
		t.Errorf("expected next auto id 51 after explicit 50, got %d", got)
	}
}

func TestGraphicsManager_UnicodePlaceholderCellTracking(t *testing.T) {
	m := NewGraphicsManager()

	p := &ImagePlacement{ImageID: 1, Row: 2, Col: 3, Rows: 1, Cols: 1, UnicodePlaceholder: true}
	id := m.Place(p)

	if got := m.PlacementAt(2, 3); got != id {
		t.Errorf("expected placement %d at (2,3), got %d", id, got)
	}
	if got := m.PlacementAt(0, 0); got != 0 {
		t.Errorf("expected no placement at (0,0), got %d", got)
	}

	m.RemovePlacement(id)
	if got := m.PlacementAt(2, 3); got != 0 {
		t.Errorf("expected placement cleared after removal, got %d", got)
	}
}

func TestGraphicsManager_VisibleAndScrollbackSplit(t *testing.T) {
	m := NewGraphicsManager()

	visible := &ImagePlacement{ImageID: 1, Row: 0, Col: 0, Rows: 1, Cols: 1}
	m.Place(visible)
	scrolled := &ImagePlacement{ImageID: 1, Row: -5, Col: 0, Rows: 1, Cols: 1}
	m.Place(scrolled)

	if len(m.VisiblePlacements()) != 1 {
		t.Errorf("expected 1 visible placement, got %d", len(m.VisiblePlacements()))
	}
	if len(m.ScrollbackPlacements()) != 1 {
		t.Errorf("expected 1 scrollback placement, got %d", len(m.ScrollbackPlacements()))
	}
}

func TestGraphicsManager_HandleScrollEvictsPastScrollbackLimit(t *testing.T) {
	m := NewGraphicsManager()

	p := &ImagePlacement{ImageID: 1, Row: 2, Col: 0, Rows: 1, Cols: 1}
	id := m.Place(p)

	m.HandleScroll(10, 5, false) // row goes to -8, past the 5-line scrollback floor

	if m.Placement(id) != nil {
		t.Error("expected placement evicted once it scrolls past the scrollback limit")
	}
}

func TestGraphicsManager_HandleScrollKeepsWithinScrollbackWindow(t *testing.T) {
	m := NewGraphicsManager()

	p := &ImagePlacement{ImageID: 1, Row: 2, Col: 0, Rows: 1, Cols: 1}
	id := m.Place(p)

	m.HandleScroll(4, 5, false) // row goes to -2, within the 5-line scrollback floor

	got := m.Placement(id)
	if got == nil {
		t.Fatal("expected placement to survive within the scrollback window")
	}
	if got.Row != -2 {
		t.Errorf("expected row -2, got %d", got.Row)
	}
	if len(m.ScrollbackPlacements()) != 1 {
		t.Errorf("expected placement to be reported as a scrollback placement, got %d", len(m.ScrollbackPlacements()))
	}
}

func TestGraphicsManager_HandleScrollOnAlternateDeletesInsteadOfMovingToScrollback(t *testing.T) {
	m := NewGraphicsManager()

	p := &ImagePlacement{ImageID: 1, Row: 2, Col: 0, Rows: 1, Cols: 1}
	id := m.Place(p)

	// Even a scrollback limit that would otherwise preserve this placement on
	// the primary buffer must not apply on the alternate screen: there is no
	// scrollback to move into there.
	m.HandleScroll(4, 1000, true)

	if m.Placement(id) != nil {
		t.Error("expected placement scrolled off the alternate screen to be deleted, not moved to scrollback")
	}
}

func TestGraphicsManager_HandleScrollDeletesImmediatelyWhenScrollbackDisabled(t *testing.T) {
	m := NewGraphicsManager()

	p := &ImagePlacement{ImageID: 1, Row: 0, Col: 0, Rows: 1, Cols: 1}
	id := m.Place(p)

	m.HandleScroll(1, 0, false) // scrollbackLimit 0 means scrollback is disabled

	if m.Placement(id) != nil {
		t.Error("expected placement deleted immediately when scrollback capacity is zero")
	}
}

func TestGraphicsManager_HandleLineDeletionShiftsAndDrops(t *testing.T) {
	m := NewGraphicsManager()

	hit := &ImagePlacement{ImageID: 1, Row: 3, Col: 0, Rows: 1, Cols: 1}
	hitID := m.Place(hit)
	below := &ImagePlacement{ImageID: 1, Row: 5, Col: 0, Rows: 1, Cols: 1}
	belowID := m.Place(below)

	m.HandleLineDeletion(3)

	if m.Placement(hitID) != nil {
		t.Error("expected placement intersecting the deleted row to be removed")
	}
	if got := m.Placement(belowID); got == nil || got.Row != 4 {
		t.Errorf("expected placement below the deleted row to shift up by one, got %+v", got)
	}
}

func TestGraphicsManager_HandleLineInsertionShiftsAndDropsPastBottom(t *testing.T) {
	// Mirrors handler.go's insertBlankLinesInternal, which calls
	// HandleLineInsertion once per inserted line rather than passing n.
	m := NewGraphicsManager()

	shifted := &ImagePlacement{ImageID: 1, Row: 10, Col: 0, Rows: 2, Cols: 5}
	shiftedID := m.Place(shifted)
	dropped := &ImagePlacement{ImageID: 1, Row: 22, Col: 0, Rows: 2, Cols: 5}
	droppedID := m.Place(dropped)

	for i := 0; i < 3; i++ {
		m.HandleLineInsertion(5, 24)
	}

	if got := m.Placement(shiftedID); got == nil || got.Row != 13 {
		t.Errorf("expected placement to shift to row 13, got %+v", got)
	}
	if m.Placement(droppedID) != nil {
		t.Error("expected placement pushed at or past the bottom of the screen to be deleted")
	}
}

func TestGraphicsManager_HandleResizeDropsOutOfBounds(t *testing.T) {
	m := NewGraphicsManager()

	inBounds := &ImagePlacement{ImageID: 1, Row: 1, Col: 1, Rows: 1, Cols: 1}
	inID := m.Place(inBounds)
	outOfBounds := &ImagePlacement{ImageID: 1, Row: 20, Col: 1, Rows: 1, Cols: 1}
	outID := m.Place(outOfBounds)

	m.HandleResize(10, 10)

	if m.Placement(inID) == nil {
		t.Error("expected in-bounds placement to survive resize")
	}
	if m.Placement(outID) != nil {
		t.Error("expected out-of-bounds placement to be dropped by resize")
	}
}
