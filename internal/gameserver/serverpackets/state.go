package serverpackets

import (
	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/packet"
	"github.com/udisondev/rs2go/internal/protocol"
)

// StateOptions adjusts which pending fields a viewer receives.
type StateOptions struct {
	// OmitChat drops public chat; a client draws its own chat locally.
	OmitChat bool
	// ForceAppearance includes the appearance even when it did not change,
	// for players the viewer has just started tracking.
	ForceAppearance bool
}

// StateBlock encodes subject's pending state fields for one viewer. An empty
// message means nothing is pending.
func StateBlock(rev *protocol.Revision, defs *model.EquipmentDefinitions, subject *model.Player, opts StateOptions) (*protocol.Message, error) {
	m := protocol.NewRaw()
	f := &subject.Flags

	mask := f.Mask()
	if opts.OmitChat {
		mask &^= model.FlagChat
	}
	if opts.ForceAppearance {
		mask |= model.FlagAppearance
	}
	if mask == 0 {
		return m, nil
	}

	if mask >= 0x100 {
		mask |= model.FlagWideMask
		m.WriteInt8(int(mask&0xFF), packet.Std)
		m.WriteInt8(int(mask>>8), packet.Std)
	} else {
		m.WriteInt8(int(mask), packet.Std)
	}

	s := rev.Layout.State
	for _, flag := range model.Flags {
		if mask&flag == 0 {
			continue
		}
		switch flag {
		case model.FlagGraphic:
			s.GraphicID.Write(m.Writer, int64(f.Graphic.ID))
			s.GraphicSettings.Write(m.Writer, int64(f.Graphic.Height)<<16|int64(f.Graphic.Delay&0xFFFF))

		case model.FlagAnimation:
			s.AnimationID.Write(m.Writer, int64(f.Animation.ID))
			s.AnimationDelay.Write(m.Writer, int64(f.Animation.Delay))

		case model.FlagForcedChat:
			m.WriteString(f.ForcedChat)

		case model.FlagChat:
			c := f.Chat
			s.ChatEffects.Write(m.Writer, int64(c.Color&0xFF)<<8|int64(c.Effects&0xFF))
			s.ChatRights.Write(m.Writer, int64(c.Rights))
			s.ChatLength.Write(m.Writer, int64(len(c.Text)))
			m.WriteBytesReverse(c.Text, s.ChatText)

		case model.FlagFaceEntity:
			s.FaceEntity.Write(m.Writer, int64(f.FaceEntity))

		case model.FlagAppearance:
			block, err := AppearanceBlock(defs, subject)
			if err != nil {
				return nil, err
			}
			data, err := block.Compile(nil)
			if err != nil {
				return nil, err
			}
			s.AppearanceLength.Write(m.Writer, int64(len(data)))
			m.WriteBytes(data)

		case model.FlagFaceCoords:
			s.FaceX.Write(m.Writer, int64(f.FaceX*2+1))
			s.FaceY.Write(m.Writer, int64(f.FaceY*2+1))

		case model.FlagHit:
			writeHit(m.Writer, subject, f.Hit, s.HitDamage, s.HitType, s.HitCurrent, s.HitMax)

		case model.FlagSecondHit:
			writeHit(m.Writer, subject, f.SecondHit, s.Hit2Damage, s.Hit2Type, s.Hit2Current, s.Hit2Max)
		}
	}
	return m, nil
}

func writeHit(w *packet.Writer, subject *model.Player, h model.Hit, damage, kind, current, maximum protocol.Field) {
	hp := subject.Stats.Skill(model.SkillHitpoints)
	damage.Write(w, int64(h.Damage))
	kind.Write(w, int64(h.Type))
	current.Write(w, int64(hp.Level))
	maximum.Write(w, int64(subject.Stats.MaxLevel(model.SkillHitpoints)))
}
