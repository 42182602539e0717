package protocol

import (
	"errors"
	"fmt"
	"slices"

	"github.com/udisondev/rs2go/internal/packet"
)

// ErrUnsupportedRevision is returned by Lookup for a revision the server cannot speak.
var ErrUnsupportedRevision = errors.New("protocol: unsupported revision")

// Inbound names the decoder an inbound opcode is routed to.
type Inbound int

const (
	InboundIgnored Inbound = iota // defined length, no handler
	InboundKeepAlive
	InboundChat
	InboundCommand
	InboundWalk
	InboundItemOption
	InboundFirstItemAction
	InboundSwitchItem
	InboundMouseClick
	InboundButton
	InboundDesign
)

func (i Inbound) String() string {
	switch i {
	case InboundIgnored:
		return "ignored"
	case InboundKeepAlive:
		return "keep_alive"
	case InboundChat:
		return "chat"
	case InboundCommand:
		return "command"
	case InboundWalk:
		return "walk"
	case InboundItemOption:
		return "item_option"
	case InboundFirstItemAction:
		return "first_item_action"
	case InboundSwitchItem:
		return "switch_item"
	case InboundMouseClick:
		return "mouse_click"
	case InboundButton:
		return "button"
	case InboundDesign:
		return "design"
	default:
		return fmt.Sprintf("Inbound(%d)", int(i))
	}
}

// Route tells the dispatcher what an inbound opcode carries.
type Route struct {
	Inbound Inbound
	// Option is the item option number (1-5) for InboundItemOption.
	Option int
	// Trailer is the number of bytes at the end of the payload the decoder must
	// ignore (the minimap walk carries 14 bytes of anti-cheat data).
	Trailer int
}

// Outbound holds the opcodes the server sends.
type Outbound struct {
	Synchronization byte
	CenterRegion    byte
	Close           byte
	EquipmentSlot   byte
	Inventory       byte
	Skill           byte
	Sidebar         byte
	Interface       byte
	Overlay         byte
	SystemText      byte
}

// Field is the width, mutation and order a client expects for one value.
type Field struct {
	Width    packet.Width
	Mutation packet.Mutation
	Order    packet.Order
}

// ByteField describes a single byte.
func ByteField(m packet.Mutation) Field {
	return Field{Width: packet.Byte, Mutation: m, Order: packet.Big}
}

// ShortField describes a two-byte value.
func ShortField(m packet.Mutation, o packet.Order) Field {
	return Field{Width: packet.Short, Mutation: m, Order: o}
}

// IntField describes a four-byte value.
func IntField(m packet.Mutation, o packet.Order) Field {
	return Field{Width: packet.Int, Mutation: m, Order: o}
}

// Write writes v with the field's layout.
func (f Field) Write(w *packet.Writer, v int64) {
	w.WriteValue(f.Width, v, f.Mutation, f.Order)
}

// Read reads an unsigned value with the field's layout.
func (f Field) Read(r *packet.Reader) (int, error) {
	v, err := r.ReadValue(f.Width, false, f.Mutation, f.Order)
	return int(v), err
}

// ReadSigned reads a sign-extended value with the field's layout.
func (f Field) ReadSigned(r *packet.Reader) (int, error) {
	v, err := r.ReadValue(f.Width, true, f.Mutation, f.Order)
	return int(v), err
}

// BitField names one field of a bit-packed movement record.
type BitField int

const (
	BitMovementKind BitField = iota
	BitPlane
	BitRegionChanged
	BitUpdate
	BitLocalX
	BitLocalY
	BitIndex
	BitDeltaX
	BitDeltaY
	BitDiscard
)

// ItemPart names one of the three values an item click carries.
type ItemPart int

const (
	PartInterface ItemPart = iota
	PartSlot
	PartItem
)

// ItemField is one value of an item click in wire order.
type ItemField struct {
	Part  ItemPart
	Field Field
}

// StateLayout holds the field layouts of the state block.
type StateLayout struct {
	GraphicID       Field
	GraphicSettings Field

	AnimationID    Field
	AnimationDelay Field

	ChatEffects Field
	ChatRights  Field
	ChatLength  Field
	ChatText    packet.Mutation

	FaceEntity Field

	AppearanceLength Field

	FaceX Field
	FaceY Field

	HitDamage  Field
	HitType    Field
	HitCurrent Field
	HitMax     Field

	Hit2Damage  Field
	Hit2Type    Field
	Hit2Current Field
	Hit2Max     Field
}

// Layout collects everything two revisions encode differently.
type Layout struct {
	// Placement is the order of the teleport record after the leading flag bit.
	Placement []BitField
	// AddEntity is the order of a local list addition record.
	AddEntity []BitField

	RegionX Field
	RegionY Field

	SidebarInterface Field
	SidebarTab       Field

	SkillID         Field
	SkillExperience Field
	SkillLevel      Field

	InterfaceID Field
	OverlayID   Field

	ContainerInterface   Field
	ContainerCount       Field
	ContainerAmount      Field
	ContainerLargeAmount Field
	ContainerItem        Field

	WalkFirstX  Field
	WalkFirstY  Field
	WalkRunning Field

	ChatEffects Field
	ChatColor   Field
	ChatText    packet.Mutation

	// ItemOptions is indexed by option number minus one.
	ItemOptions     [5][]ItemField
	FirstItemAction []ItemField

	SwitchInterface Field
	SwitchInserting Field
	SwitchFrom      Field
	SwitchTo        Field

	Button     Field
	MouseClick Field

	State StateLayout
}

// Revision is everything the codec needs to speak one client build.
type Revision struct {
	Number   int
	Incoming [256]Length
	Routes   [256]Route
	Out      Outbound
	Layout   Layout

	// RSALengthPrefix is set when the login block carries the RSA block
	// length as an explicit byte.
	RSALengthPrefix bool
}

// Length returns the payload length of an inbound opcode.
func (r *Revision) Length(opcode byte) Length {
	return r.Incoming[opcode]
}

// Route returns where an inbound opcode is dispatched.
func (r *Revision) Route(opcode byte) Route {
	return r.Routes[opcode]
}

func (r *Revision) define(opcode byte, l Length, route Route) {
	r.Incoming[opcode] = l
	r.Routes[opcode] = route
}

var revisions = map[int]*Revision{
	317: newRevision317(),
	377: newRevision377(),
}

// Lookup returns the revision with the given number.
func Lookup(number int) (*Revision, error) {
	rev, ok := revisions[number]
	if !ok {
		return nil, fmt.Errorf("revision %d: %w", number, ErrUnsupportedRevision)
	}
	return rev, nil
}

// Supported returns the supported revision numbers in ascending order.
func Supported() []int {
	nums := make([]int, 0, len(revisions))
	for n := range revisions {
		nums = append(nums, n)
	}
	slices.Sort(nums)
	return nums
}
