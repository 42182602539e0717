package model

// UpdateFlag is one bit of the state block mask.
type UpdateFlag int

// Mask bits. The state block writes fields in the order of Flags below,
// not in bit order.
const (
	FlagFaceEntity UpdateFlag = 0x1
	FlagFaceCoords UpdateFlag = 0x2
	FlagForcedChat UpdateFlag = 0x4
	FlagAnimation  UpdateFlag = 0x8
	FlagAppearance UpdateFlag = 0x10
	FlagHit        UpdateFlag = 0x20
	FlagWideMask   UpdateFlag = 0x40
	FlagChat       UpdateFlag = 0x80
	FlagGraphic    UpdateFlag = 0x100
	FlagSecondHit  UpdateFlag = 0x200
)

// Flags lists the state block fields in serialization order.
var Flags = []UpdateFlag{
	FlagGraphic,
	FlagAnimation,
	FlagForcedChat,
	FlagChat,
	FlagFaceEntity,
	FlagAppearance,
	FlagFaceCoords,
	FlagHit,
	FlagSecondHit,
}

// Graphic is a spot animation played on the player.
type Graphic struct {
	ID     int
	Height int
	Delay  int
}

// Animation is a body animation.
type Animation struct {
	ID    int
	Delay int
}

// ChatMessage is a public chat line as the client packed it.
type ChatMessage struct {
	Color   int
	Effects int
	Rights  int
	// Text is the client's packed text, relayed without decoding.
	Text []byte
}

// Hit is a damage splat.
type Hit struct {
	Damage int
	Type   int
}

// Hit types.
const (
	HitBlock  = 0
	HitNormal = 1
	HitPoison = 2
)

// UpdateFlags is the pending state of a player for the current tick.
type UpdateFlags struct {
	mask UpdateFlag

	Graphic    Graphic
	Animation  Animation
	ForcedChat string
	Chat       ChatMessage
	FaceEntity int
	FaceX      int
	FaceY      int
	Hit        Hit
	SecondHit  Hit
}

// Flag marks a field as pending.
func (f *UpdateFlags) Flag(flag UpdateFlag) {
	f.mask |= flag
}

// Has reports whether a field is pending.
func (f UpdateFlags) Has(flag UpdateFlag) bool {
	return f.mask&flag != 0
}

// Mask returns all pending bits.
func (f UpdateFlags) Mask() UpdateFlag {
	return f.mask
}

// UpdateRequired reports whether anything is pending.
func (f UpdateFlags) UpdateRequired() bool {
	return f.mask != 0
}

// Reset clears the pending bits. Values stay so a repeat flag can reuse them.
func (f *UpdateFlags) Reset() {
	f.mask = 0
}

// PlayGraphic queues a spot animation.
func (f *UpdateFlags) PlayGraphic(g Graphic) {
	f.Graphic = g
	f.Flag(FlagGraphic)
}

// PlayAnimation queues a body animation.
func (f *UpdateFlags) PlayAnimation(a Animation) {
	f.Animation = a
	f.Flag(FlagAnimation)
}

// Say queues overhead text.
func (f *UpdateFlags) Say(text string) {
	f.ForcedChat = text
	f.Flag(FlagForcedChat)
}

// SetChat queues a public chat message.
func (f *UpdateFlags) SetChat(msg ChatMessage) {
	f.Chat = msg
	f.Flag(FlagChat)
}

// Face turns the player towards an entity (player index + 32768, -1 to reset).
func (f *UpdateFlags) Face(entity int) {
	f.FaceEntity = entity
	f.Flag(FlagFaceEntity)
}

// FaceTile turns the player towards a tile.
func (f *UpdateFlags) FaceTile(x, y int) {
	f.FaceX, f.FaceY = x, y
	f.Flag(FlagFaceCoords)
}

// Damage queues a hit splat; a second hit in the same tick uses the second slot.
func (f *UpdateFlags) Damage(h Hit) {
	if f.Has(FlagHit) {
		f.SecondHit = h
		f.Flag(FlagSecondHit)
		return
	}
	f.Hit = h
	f.Flag(FlagHit)
}
