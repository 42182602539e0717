package protocol

import "github.com/udisondev/rs2go/internal/packet"

// The 377 table only defines the opcodes the server handles. Everything else
// has an unknown length and is reported to the caller.
func newRevision377() *Revision {
	r := &Revision{
		Number: 377,
		Out: Outbound{
			Synchronization: 90,
			CenterRegion:    222,
			Close:           5,
			EquipmentSlot:   134,
			Inventory:       206,
			Skill:           49,
			Sidebar:         10,
			Interface:       159,
			Overlay:         50,
			SystemText:      63,
		},
	}

	r.define(0, FixedLength(0), Route{Inbound: InboundKeepAlive})
	r.define(248, FixedLength(0), Route{Inbound: InboundKeepAlive})
	r.define(49, VarByteLength, Route{Inbound: InboundChat})
	r.define(56, VarByteLength, Route{Inbound: InboundCommand})
	r.define(213, VarByteLength, Route{Inbound: InboundWalk, Trailer: 14})
	r.define(28, VarByteLength, Route{Inbound: InboundWalk})
	r.define(247, VarByteLength, Route{Inbound: InboundWalk})
	r.define(203, FixedLength(6), Route{Inbound: InboundItemOption, Option: 1})
	r.define(24, FixedLength(6), Route{Inbound: InboundItemOption, Option: 2})
	r.define(161, FixedLength(6), Route{Inbound: InboundItemOption, Option: 3})
	r.define(228, FixedLength(6), Route{Inbound: InboundItemOption, Option: 4})
	r.define(4, FixedLength(6), Route{Inbound: InboundItemOption, Option: 5})
	r.define(3, FixedLength(6), Route{Inbound: InboundFirstItemAction})
	r.define(123, FixedLength(7), Route{Inbound: InboundSwitchItem})
	r.define(19, FixedLength(4), Route{Inbound: InboundMouseClick})
	r.define(79, FixedLength(2), Route{Inbound: InboundButton})
	r.define(163, FixedLength(13), Route{Inbound: InboundDesign})

	r.Layout = Layout{
		Placement: []BitField{BitMovementKind, BitLocalX, BitRegionChanged, BitPlane, BitUpdate, BitLocalY},
		AddEntity: []BitField{BitIndex, BitDeltaX, BitDeltaY, BitUpdate, BitDiscard},

		RegionX: ShortField(packet.Std, packet.Little),
		RegionY: ShortField(packet.Add, packet.Big),

		SidebarInterface: ShortField(packet.Add, packet.Big),
		SidebarTab:       ByteField(packet.Rsub),

		SkillID:         ByteField(packet.Neg),
		SkillExperience: IntField(packet.Std, packet.Little),
		SkillLevel:      ByteField(packet.Std),

		InterfaceID: ShortField(packet.Add, packet.Little),
		OverlayID:   ShortField(packet.Std, packet.Big),

		ContainerInterface:   ShortField(packet.Std, packet.Big),
		ContainerCount:       ShortField(packet.Std, packet.Big),
		ContainerAmount:      ByteField(packet.Std),
		ContainerLargeAmount: IntField(packet.Std, packet.Middle),
		ContainerItem:        ShortField(packet.Add, packet.Big),

		WalkFirstX:  ShortField(packet.Std, packet.Little),
		WalkFirstY:  ShortField(packet.Add, packet.Little),
		WalkRunning: ByteField(packet.Rsub),

		ChatEffects: ByteField(packet.Neg),
		ChatColor:   ByteField(packet.Add),
		ChatText:    packet.Std,

		ItemOptions: [5][]ItemField{
			{{PartSlot, ShortField(packet.Std, packet.Little)}, {PartItem, ShortField(packet.Add, packet.Big)}, {PartInterface, ShortField(packet.Std, packet.Little)}},
			{{PartInterface, ShortField(packet.Std, packet.Little)}, {PartItem, ShortField(packet.Std, packet.Little)}, {PartSlot, ShortField(packet.Std, packet.Big)}},
			{{PartSlot, ShortField(packet.Add, packet.Little)}, {PartInterface, ShortField(packet.Std, packet.Big)}, {PartItem, ShortField(packet.Std, packet.Little)}},
			{{PartItem, ShortField(packet.Std, packet.Little)}, {PartSlot, ShortField(packet.Add, packet.Big)}, {PartInterface, ShortField(packet.Add, packet.Little)}},
			{{PartSlot, ShortField(packet.Std, packet.Little)}, {PartInterface, ShortField(packet.Add, packet.Big)}, {PartItem, ShortField(packet.Add, packet.Little)}},
		},
		FirstItemAction: []ItemField{
			{PartItem, ShortField(packet.Std, packet.Little)}, {PartInterface, ShortField(packet.Add, packet.Big)}, {PartSlot, ShortField(packet.Add, packet.Big)},
		},

		SwitchInterface: ShortField(packet.Std, packet.Little),
		SwitchInserting: ByteField(packet.Rsub),
		SwitchFrom:      ShortField(packet.Add, packet.Little),
		SwitchTo:        ShortField(packet.Add, packet.Little),

		Button:     ShortField(packet.Std, packet.Big),
		MouseClick: IntField(packet.Std, packet.Big),

		State: StateLayout{
			GraphicID:       ShortField(packet.Std, packet.Big),
			GraphicSettings: IntField(packet.Std, packet.InverseMiddle),

			AnimationID:    ShortField(packet.Add, packet.Little),
			AnimationDelay: ByteField(packet.Rsub),

			ChatEffects: ShortField(packet.Add, packet.Big),
			ChatRights:  ByteField(packet.Neg),
			ChatLength:  ByteField(packet.Std),
			ChatText:    packet.Add,

			FaceEntity: ShortField(packet.Add, packet.Big),

			AppearanceLength: ByteField(packet.Add),

			FaceX: ShortField(packet.Std, packet.Little),
			FaceY: ShortField(packet.Add, packet.Big),

			HitDamage:  ByteField(packet.Neg),
			HitType:    ByteField(packet.Rsub),
			HitCurrent: ByteField(packet.Add),
			HitMax:     ByteField(packet.Std),

			Hit2Damage:  ByteField(packet.Add),
			Hit2Type:    ByteField(packet.Neg),
			Hit2Current: ByteField(packet.Std),
			Hit2Max:     ByteField(packet.Rsub),
		},
	}
	return r
}
