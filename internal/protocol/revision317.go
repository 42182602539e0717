package protocol

import "github.com/udisondev/rs2go/internal/packet"

// lengths317 is the inbound payload size of every 317 opcode; -1 is a
// one-byte length prefix.
var lengths317 = [256]int{
	0, 0, 0, 1, -1, 0, 0, 0, 0, 0, // 0
	0, 0, 0, 0, 8, 0, 6, 2, 2, 0, // 10
	0, 2, 0, 6, 0, 12, 0, 0, 0, 0, // 20
	0, 0, 0, 0, 0, 8, 4, 0, 0, 2, // 30
	2, 6, 0, 6, 0, -1, 0, 0, 0, 0, // 40
	0, 0, 0, 12, 0, 0, 0, 8, 8, 12, // 50
	8, 8, 0, 0, 0, 0, 0, 0, 0, 0, // 60
	6, 0, 2, 2, 8, 6, 0, -1, 0, 6, // 70
	0, 0, 0, 0, 0, 1, 4, 6, 0, 0, // 80
	0, 0, 0, 0, 0, 3, 0, 0, -1, 0, // 90
	0, 13, 0, -1, 0, 0, 0, 0, 0, 0, // 100
	0, 0, 0, 0, 0, 0, 0, 6, 0, 0, // 110
	1, 0, 6, 0, 0, 0, -1, 0, 2, 6, // 120
	0, 4, 6, 8, 0, 6, 0, 0, 0, 2, // 130
	0, 0, 0, 0, 0, 6, 0, 0, 0, 0, // 140
	0, 0, 1, 2, 0, 2, 6, 0, 0, 0, // 150
	0, 0, 0, 0, -1, -1, 0, 0, 0, 0, // 160
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 170
	0, 8, 0, 3, 0, 2, 0, 0, 8, 1, // 180
	0, 0, 12, 0, 0, 0, 0, 0, 0, 0, // 190
	2, 0, 0, 0, 0, 0, 0, 0, 4, 0, // 200
	4, 0, 0, 0, 7, 8, 0, 0, 10, 0, // 210
	0, 0, 0, 0, 0, 0, -1, 0, 6, 0, // 220
	1, 0, 0, 0, 6, 0, 6, 8, 1, 0, // 230
	0, 4, 0, 0, 0, 0, -1, 0, -1, 4, // 240
	0, 0, 6, 6, 0, 0, // 250
}

func newRevision317() *Revision {
	r := &Revision{
		Number:          317,
		RSALengthPrefix: true,
		Out: Outbound{
			Synchronization: 81,
			CenterRegion:    73,
			Close:           5,
			EquipmentSlot:   34,
			Inventory:       53,
			Skill:           134,
			Sidebar:         71,
			Interface:       97,
			Overlay:         208,
			SystemText:      253,
		},
	}

	for op, n := range lengths317 {
		if n < 0 {
			r.Incoming[op] = VarByteLength
			continue
		}
		r.Incoming[op] = FixedLength(n)
	}

	r.define(0, FixedLength(0), Route{Inbound: InboundKeepAlive})
	r.define(4, VarByteLength, Route{Inbound: InboundChat})
	r.define(103, VarByteLength, Route{Inbound: InboundCommand})
	r.define(248, VarByteLength, Route{Inbound: InboundWalk, Trailer: 14})
	r.define(164, VarByteLength, Route{Inbound: InboundWalk})
	r.define(98, VarByteLength, Route{Inbound: InboundWalk})
	r.define(122, FixedLength(6), Route{Inbound: InboundItemOption, Option: 1})
	r.define(41, FixedLength(6), Route{Inbound: InboundItemOption, Option: 2})
	r.define(16, FixedLength(6), Route{Inbound: InboundItemOption, Option: 3})
	r.define(75, FixedLength(6), Route{Inbound: InboundItemOption, Option: 4})
	r.define(87, FixedLength(6), Route{Inbound: InboundItemOption, Option: 5})
	r.define(145, FixedLength(6), Route{Inbound: InboundFirstItemAction})
	r.define(214, FixedLength(7), Route{Inbound: InboundSwitchItem})
	r.define(241, FixedLength(4), Route{Inbound: InboundMouseClick})
	r.define(185, FixedLength(2), Route{Inbound: InboundButton})
	r.define(101, FixedLength(13), Route{Inbound: InboundDesign})

	r.Layout = Layout{
		Placement: []BitField{BitMovementKind, BitPlane, BitRegionChanged, BitUpdate, BitLocalY, BitLocalX},
		AddEntity: []BitField{BitIndex, BitUpdate, BitDiscard, BitDeltaY, BitDeltaX},

		RegionX: ShortField(packet.Add, packet.Big),
		RegionY: ShortField(packet.Std, packet.Big),

		SidebarInterface: ShortField(packet.Std, packet.Big),
		SidebarTab:       ByteField(packet.Add),

		SkillID:         ByteField(packet.Std),
		SkillExperience: IntField(packet.Std, packet.Middle),
		SkillLevel:      ByteField(packet.Std),

		InterfaceID: ShortField(packet.Std, packet.Big),
		OverlayID:   ShortField(packet.Std, packet.Little),

		ContainerInterface:   ShortField(packet.Std, packet.Big),
		ContainerCount:       ShortField(packet.Std, packet.Big),
		ContainerAmount:      ByteField(packet.Std),
		ContainerLargeAmount: IntField(packet.Std, packet.InverseMiddle),
		ContainerItem:        ShortField(packet.Add, packet.Little),

		WalkFirstX:  ShortField(packet.Add, packet.Little),
		WalkFirstY:  ShortField(packet.Std, packet.Little),
		WalkRunning: ByteField(packet.Neg),

		ChatEffects: ByteField(packet.Rsub),
		ChatColor:   ByteField(packet.Rsub),
		ChatText:    packet.Add,

		ItemOptions: [5][]ItemField{
			{{PartInterface, ShortField(packet.Add, packet.Little)}, {PartSlot, ShortField(packet.Add, packet.Big)}, {PartItem, ShortField(packet.Std, packet.Little)}},
			{{PartItem, ShortField(packet.Std, packet.Big)}, {PartSlot, ShortField(packet.Add, packet.Big)}, {PartInterface, ShortField(packet.Add, packet.Big)}},
			{{PartItem, ShortField(packet.Add, packet.Big)}, {PartSlot, ShortField(packet.Add, packet.Little)}, {PartInterface, ShortField(packet.Add, packet.Little)}},
			{{PartInterface, ShortField(packet.Add, packet.Little)}, {PartSlot, ShortField(packet.Std, packet.Little)}, {PartItem, ShortField(packet.Add, packet.Big)}},
			{{PartItem, ShortField(packet.Add, packet.Big)}, {PartInterface, ShortField(packet.Std, packet.Big)}, {PartSlot, ShortField(packet.Add, packet.Big)}},
		},
		FirstItemAction: []ItemField{
			{PartInterface, ShortField(packet.Add, packet.Big)}, {PartSlot, ShortField(packet.Add, packet.Big)}, {PartItem, ShortField(packet.Add, packet.Big)},
		},

		SwitchInterface: ShortField(packet.Add, packet.Little),
		SwitchInserting: ByteField(packet.Neg),
		SwitchFrom:      ShortField(packet.Add, packet.Little),
		SwitchTo:        ShortField(packet.Std, packet.Little),

		Button:     ShortField(packet.Std, packet.Big),
		MouseClick: IntField(packet.Std, packet.Big),

		State: StateLayout{
			GraphicID:       ShortField(packet.Std, packet.Little),
			GraphicSettings: IntField(packet.Std, packet.Big),

			AnimationID:    ShortField(packet.Std, packet.Little),
			AnimationDelay: ByteField(packet.Neg),

			ChatEffects: ShortField(packet.Std, packet.Little),
			ChatRights:  ByteField(packet.Std),
			ChatLength:  ByteField(packet.Neg),
			ChatText:    packet.Std,

			FaceEntity: ShortField(packet.Std, packet.Little),

			AppearanceLength: ByteField(packet.Neg),

			FaceX: ShortField(packet.Add, packet.Little),
			FaceY: ShortField(packet.Std, packet.Little),

			HitDamage:  ByteField(packet.Std),
			HitType:    ByteField(packet.Add),
			HitCurrent: ByteField(packet.Neg),
			HitMax:     ByteField(packet.Std),

			Hit2Damage:  ByteField(packet.Std),
			Hit2Type:    ByteField(packet.Rsub),
			Hit2Current: ByteField(packet.Std),
			Hit2Max:     ByteField(packet.Neg),
		},
	}
	return r
}
