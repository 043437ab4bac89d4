package vtcore

import (
	"crypto/sha256"
	"sync"
	"time"
)

// ImageFormat represents the format of image data.
type ImageFormat uint8

const (
	ImageFormatRGBA ImageFormat = iota // 32-bit RGBA (4 bytes per pixel)
	ImageFormatRGB                     // 24-bit RGB (3 bytes per pixel)
	ImageFormatPNG                     // PNG encoded
)

// ImageData stores decoded image pixels and metadata.
type ImageData struct {
	ID        uint32      // Unique image ID
	Width     uint32      // Image width in pixels
	Height    uint32      // Image height in pixels
	Data      []byte      // RGBA pixel data (always converted to RGBA internally)
	Hash      [32]byte    // SHA-256 hash for deduplication
	CreatedAt time.Time   // For LRU eviction
	AccessedAt time.Time  // Last access time
}

// ImagePlacement represents a displayed instance of an image.
type ImagePlacement struct {
	ID          uint32 // Unique placement ID
	ImageID     uint32 // Reference to ImageData

	// Position in terminal (cell coordinates)
	Row, Col    int

	// Size in cells
	Cols, Rows  int

	// Source region (crop from original image)
	SrcX, SrcY  uint32
	SrcW, SrcH  uint32

	// Z-index for layering (-1 = behind text, 0+ = in front)
	ZIndex      int32

	// Sub-cell offset in pixels
	OffsetX, OffsetY uint32

	// UnicodePlaceholder marks a placement addressed through unicode
	// placeholder characters written into the grid rather than the
	// always-on per-cell CellImage UV mechanism. Only placements with this
	// set are recorded in cellToPlacement (see PlacementAt); the
	// scroll/clear/resize coupling methods below act on every placement.
	UnicodePlaceholder bool
}

// CellImage is a lightweight reference stored in each Cell.
// It contains UV coordinates for rendering the correct slice of the image.
type CellImage struct {
	PlacementID uint32  // Reference to ImagePlacement
	ImageID     uint32  // Direct reference to ImageData for quick lookup

	// Normalized texture coordinates (0.0 - 1.0)
	U0, V0      float32 // Top-left corner
	U1, V1      float32 // Bottom-right corner

	// Z-index for render ordering
	ZIndex      int32
}

// GraphicsManager handles storage, placement, and lifecycle of terminal images.
type GraphicsManager struct {
	mu sync.RWMutex

	images      map[uint32]*ImageData      // ID -> image data
	placements  map[uint32]*ImagePlacement // PlacementID -> placement
	hashToID    map[[32]byte]uint32        // Hash -> ID for deduplication

	// cellToPlacement tracks unicode-placeholder placements by the cell
	// positions they cover. Lazily allocated on first use.
	cellToPlacement map[Position]uint32

	nextImageID     uint32
	nextPlacementID uint32

	// Memory management
	maxMemory  int64 // Budget in bytes (default 320MB)
	usedMemory int64

	// transmissions holds in-progress chunked Kitty uploads, keyed by image
	// ID so that interleaving chunks of two different images never corrupts
	// either (each image's reassembly buffer is independent).
	transmissions map[uint32]*pendingTransmission
}

// pendingTransmission is the reassembly state for one image ID's chunked
// upload. format/compression/width/height are captured from the first chunk
// only; continuation chunks carry just payload bytes.
type pendingTransmission struct {
	format      KittyFormat
	compression byte
	width       uint32
	height      uint32
	data        []byte
}

// NewGraphicsManager creates a new GraphicsManager with default settings.
func NewGraphicsManager() *GraphicsManager {
	return &GraphicsManager{
		images:     make(map[uint32]*ImageData),
		placements: make(map[uint32]*ImagePlacement),
		hashToID:   make(map[[32]byte]uint32),
		maxMemory:  320 * 1024 * 1024, // 320MB default
	}
}

// SetMaxMemory sets the maximum memory budget for images.
func (m *GraphicsManager) SetMaxMemory(bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxMemory = bytes
}

// Store adds image data and returns its ID.
// If an identical image exists (same hash), returns the existing ID.
func (m *GraphicsManager) Store(width, height uint32, data []byte) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Calculate hash for deduplication
	hash := sha256.Sum256(data)

	// Check for duplicate
	if existingID, ok := m.hashToID[hash]; ok {
		if img, ok := m.images[existingID]; ok {
			img.AccessedAt = time.Now()
			return existingID
		}
	}

	// Allocate new ID
	m.nextImageID++
	id := m.nextImageID

	now := time.Now()
	img := &ImageData{
		ID:         id,
		Width:      width,
		Height:     height,
		Data:       data,
		Hash:       hash,
		CreatedAt:  now,
		AccessedAt: now,
	}

	m.images[id] = img
	m.hashToID[hash] = id
	m.usedMemory += int64(len(data))

	// Prune if over budget
	if m.usedMemory > m.maxMemory {
		m.pruneLocked()
	}

	return id
}

// StoreWithID adds image data with a specific ID (used by Kitty protocol).
func (m *GraphicsManager) StoreWithID(id, width, height uint32, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hash := sha256.Sum256(data)

	// Remove old image with same ID if exists
	if old, ok := m.images[id]; ok {
		m.usedMemory -= int64(len(old.Data))
		delete(m.hashToID, old.Hash)
	}

	now := time.Now()
	img := &ImageData{
		ID:         id,
		Width:      width,
		Height:     height,
		Data:       data,
		Hash:       hash,
		CreatedAt:  now,
		AccessedAt: now,
	}

	m.images[id] = img
	m.hashToID[hash] = id
	m.usedMemory += int64(len(data))

	if id > m.nextImageID {
		m.nextImageID = id
	}

	if m.usedMemory > m.maxMemory {
		m.pruneLocked()
	}
}

// Image returns the image data for the given ID, or nil if not found.
func (m *GraphicsManager) Image(id uint32) *ImageData {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if img, ok := m.images[id]; ok {
		img.AccessedAt = time.Now()
		return img
	}
	return nil
}

// Place creates a new placement and returns its ID. If p.ID is already set
// (the Kitty p= field), that ID is honored and the generator is advanced
// past it, mirroring StoreWithID's explicit-ID behavior for images. Only
// when p.ID is zero does Place auto-assign the next generated ID.
func (m *GraphicsManager) Place(p *ImagePlacement) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == 0 {
		m.nextPlacementID++
		p.ID = m.nextPlacementID
	} else if p.ID > m.nextPlacementID {
		m.nextPlacementID = p.ID
	}

	m.placements[p.ID] = p

	if p.UnicodePlaceholder {
		if m.cellToPlacement == nil {
			m.cellToPlacement = make(map[Position]uint32)
		}
		for r := p.Row; r < p.Row+p.Rows; r++ {
			for c := p.Col; c < p.Col+p.Cols; c++ {
				m.cellToPlacement[Position{Row: r, Col: c}] = p.ID
			}
		}
	}

	return p.ID
}

// PlacementAt returns the ID of the unicode-placeholder-backed placement
// covering the given cell, or 0 if none. Placements assigned via the
// always-on CellImage UV mechanism (no unicode placeholder) are not tracked
// here; query those through the Cell's Image field instead.
func (m *GraphicsManager) PlacementAt(row, col int) uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cellToPlacement[Position{Row: row, Col: col}]
}

// VisiblePlacements returns placements whose Row is within the visible
// screen (row >= 0), as opposed to placements that have scrolled into
// negative, scrollback-relative row coordinates.
func (m *GraphicsManager) VisiblePlacements() []*ImagePlacement {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*ImagePlacement, 0, len(m.placements))
	for _, p := range m.placements {
		if p.Row >= 0 {
			result = append(result, p)
		}
	}
	return result
}

// ScrollbackPlacements returns placements that have scrolled off the
// visible screen into scrollback, identified by a negative Row.
func (m *GraphicsManager) ScrollbackPlacements() []*ImagePlacement {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*ImagePlacement, 0)
	for _, p := range m.placements {
		if p.Row < 0 {
			result = append(result, p)
		}
	}
	return result
}

// HandleScroll shifts every placement's row by -n, the same direction a
// scroll-up moves screen content. On the primary buffer (isAlternate false),
// a placement whose new row falls below -(scrollbackLimit) is dropped since
// nothing above the scrollback window can ever become visible again, and a
// scrollbackLimit of zero means scrollback is disabled entirely so any
// negative row is dropped immediately. On the alternate buffer (isAlternate
// true) there is no scrollback to move into, so any placement pushed above
// row 0 is deleted outright rather than given a negative row. Called once
// per scroll operation, with n set to the number of lines scrolled off the
// top of the active buffer.
func (m *GraphicsManager) HandleScroll(n, scrollbackLimit int, isAlternate bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		p.Row -= n
		if p.Row < 0 && (isAlternate || scrollbackLimit <= 0 || p.Row < -scrollbackLimit) {
			m.deletePlacementLocked(id)
		}
	}
}

// HandleLineInsertion shifts placements at or below `row` down by one and
// drops any placement pushed at or past the bottom of the screen, mirroring
// Buffer.InsertLines followed by the lines that fall off the far edge during
// a scroll-region insert.
func (m *GraphicsManager) HandleLineInsertion(row, screenRows int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if p.Row < row {
			continue
		}
		p.Row++
		if p.Row >= screenRows {
			m.deletePlacementLocked(id)
		}
	}
}

// HandleLineDeletion removes placements intersecting `row` and shifts
// everything below it up by one, mirroring Buffer.DeleteLines.
func (m *GraphicsManager) HandleLineDeletion(row int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if row >= p.Row && row < p.Row+p.Rows {
			m.deletePlacementLocked(id)
		}
	}
	m.shiftRowsFromLocked(row+1, -1)
}

// HandleClear drops every placement on the visible screen, or every
// placement including scrollback when includeScrollback is true (ED mode 3).
func (m *GraphicsManager) HandleClear(includeScrollback bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if includeScrollback || p.Row >= 0 {
			m.deletePlacementLocked(id)
		}
	}
}

// HandleResize drops placements that no longer fit the new grid dimensions.
func (m *GraphicsManager) HandleResize(rows, cols int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if p.Row >= rows || p.Col >= cols {
			m.deletePlacementLocked(id)
		}
	}
}

// shiftRowsFromLocked shifts every placement at or below fromRow by delta.
// Used for line deletion, where the shift is upward (delta < 0) and cannot
// push a placement out of bounds, so no screen-edge check is needed here;
// HandleLineInsertion has its own bound-checked loop for the downward case.
func (m *GraphicsManager) shiftRowsFromLocked(fromRow, delta int) {
	for _, p := range m.placements {
		if p.Row >= fromRow {
			p.Row += delta
		}
	}
}

// deletePlacementLocked removes a placement and its cell_to_placement
// entries. Must be called with m.mu held.
func (m *GraphicsManager) deletePlacementLocked(id uint32) {
	p, ok := m.placements[id]
	if !ok {
		return
	}
	delete(m.placements, id)
	if p.UnicodePlaceholder {
		for r := p.Row; r < p.Row+p.Rows; r++ {
			for c := p.Col; c < p.Col+p.Cols; c++ {
				if m.cellToPlacement[Position{Row: r, Col: c}] == id {
					delete(m.cellToPlacement, Position{Row: r, Col: c})
				}
			}
		}
	}
}

// Placement returns the placement for the given ID, or nil if not found.
func (m *GraphicsManager) Placement(id uint32) *ImagePlacement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.placements[id]
}

// Placements returns all current placements.
func (m *GraphicsManager) Placements() []*ImagePlacement {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*ImagePlacement, 0, len(m.placements))
	for _, p := range m.placements {
		result = append(result, p)
	}
	return result
}

// RemovePlacement removes a placement by ID.
func (m *GraphicsManager) RemovePlacement(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletePlacementLocked(id)
}

// RemovePlacementsForImage removes all placements for a given image ID.
func (m *GraphicsManager) RemovePlacementsForImage(imageID uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if p.ImageID == imageID {
			m.deletePlacementLocked(id)
		}
	}
}

// DeleteImage removes an image and all its placements.
func (m *GraphicsManager) DeleteImage(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if img, ok := m.images[id]; ok {
		m.usedMemory -= int64(len(img.Data))
		delete(m.hashToID, img.Hash)
		delete(m.images, id)
	}

	// Remove associated placements
	for pid, p := range m.placements {
		if p.ImageID == id {
			m.deletePlacementLocked(pid)
		}
	}
}

// Clear removes all images and placements.
func (m *GraphicsManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.images = make(map[uint32]*ImageData)
	m.placements = make(map[uint32]*ImagePlacement)
	m.hashToID = make(map[[32]byte]uint32)
	m.cellToPlacement = nil
	m.usedMemory = 0
	m.transmissions = nil
}

// AddChunk appends a chunk of raw transmission bytes to the reassembly
// buffer for imageID, starting a new one if this is the first chunk seen
// for that ID. format/compression/width/height are recorded only when the
// transmission is created; the Kitty protocol lets continuation chunks omit
// them, so a zero value on a later chunk must not clobber what the first
// chunk declared.
func (m *GraphicsManager) AddChunk(imageID uint32, format KittyFormat, compression byte, width, height uint32, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.transmissions == nil {
		m.transmissions = make(map[uint32]*pendingTransmission)
	}

	tr, ok := m.transmissions[imageID]
	if !ok {
		tr = &pendingTransmission{format: format, compression: compression, width: width, height: height}
		m.transmissions[imageID] = tr
	}
	tr.data = append(tr.data, data...)
}

// CompleteTransmission concatenates and discards the reassembly buffer for
// imageID, returning its declared format/compression/dimensions and the
// combined bytes. ok is false if imageID has no in-progress transmission
// (an unknown ID is a no-op per the graphics error-handling contract, not a
// failure the caller needs to report).
func (m *GraphicsManager) CompleteTransmission(imageID uint32) (format KittyFormat, compression byte, width, height uint32, data []byte, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tr, found := m.transmissions[imageID]
	if !found {
		return 0, 0, 0, 0, nil, false
	}
	delete(m.transmissions, imageID)
	return tr.format, tr.compression, tr.width, tr.height, tr.data, true
}

// CancelTransmission discards any in-progress reassembly for imageID without
// returning its bytes.
func (m *GraphicsManager) CancelTransmission(imageID uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.transmissions, imageID)
}

// CancelAllTransmissions discards every in-progress reassembly buffer. It is
// used on a full terminal reset (RIS), where whatever host process was
// mid-upload is gone from the terminal's point of view, and by the Kitty
// delete-all command.
func (m *GraphicsManager) CancelAllTransmissions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transmissions = nil
}

// UsedMemory returns the current memory usage in bytes.
func (m *GraphicsManager) UsedMemory() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.usedMemory
}

// ImageCount returns the number of stored images.
func (m *GraphicsManager) ImageCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.images)
}

// PlacementCount returns the number of active placements.
func (m *GraphicsManager) PlacementCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.placements)
}

// pruneLocked removes least recently used images until under budget.
// Must be called with lock held.
func (m *GraphicsManager) pruneLocked() {
	// Find images not referenced by any placement
	referenced := make(map[uint32]bool)
	for _, p := range m.placements {
		referenced[p.ImageID] = true
	}

	// Collect unreferenced images sorted by access time
	type candidate struct {
		id   uint32
		time time.Time
		size int64
	}
	var candidates []candidate

	for id, img := range m.images {
		if !referenced[id] {
			candidates = append(candidates, candidate{id, img.AccessedAt, int64(len(img.Data))})
		}
	}

	// Sort by access time (oldest first)
	for i := 0; i < len(candidates)-1; i++ {
		for j := i + 1; j < len(candidates); j++ {
			if candidates[j].time.Before(candidates[i].time) {
				candidates[i], candidates[j] = candidates[j], candidates[i]
			}
		}
	}

	// Remove until under budget
	for _, c := range candidates {
		if m.usedMemory <= m.maxMemory {
			break
		}
		if img, ok := m.images[c.id]; ok {
			delete(m.hashToID, img.Hash)
			delete(m.images, c.id)
			m.usedMemory -= c.size
		}
	}
}

// DeletePlacementsByPosition removes placements that overlap a given cell position.
func (m *GraphicsManager) DeletePlacementsByPosition(row, col int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if row >= p.Row && row < p.Row+p.Rows &&
			col >= p.Col && col < p.Col+p.Cols {
			m.deletePlacementLocked(id)
		}
	}
}

// DeletePlacementsByZIndex removes placements with a specific z-index.
func (m *GraphicsManager) DeletePlacementsByZIndex(z int32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if p.ZIndex == z {
			m.deletePlacementLocked(id)
		}
	}
}

// DeletePlacementsInRow removes all placements that intersect a given row.
func (m *GraphicsManager) DeletePlacementsInRow(row int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if row >= p.Row && row < p.Row+p.Rows {
			m.deletePlacementLocked(id)
		}
	}
}

// DeletePlacementsInColumn removes all placements that intersect a given column.
func (m *GraphicsManager) DeletePlacementsInColumn(col int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if col >= p.Col && col < p.Col+p.Cols {
			m.deletePlacementLocked(id)
		}
	}
}
