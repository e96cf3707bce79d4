package editor

import "cvchef-backend/internal/domain"

// Apply dispatches a serialised edit. Unknown kinds are ignored like any
// other edit that cannot be applied.
func (w *WorkingCopy) Apply(op domain.EditOp) bool {
	switch op.Op {
	case domain.OpSetScalar:
		return w.SetScalarField(op.Path, op.Value)
	case domain.OpSetListItemField:
		return w.SetListItemField(op.Section, op.Index, op.Field, op.Value)
	case domain.OpSetResponsibility:
		return w.SetResponsibility(op.Index, op.SubIndex, op.Value)
	case domain.OpSetSkills:
		return w.SetSkillsFromCommaList(op.Value)
	case domain.OpAddItem:
		_, ok := w.AddItem(op.Section)
		return ok
	case domain.OpRemoveItem:
		return w.RemoveItem(op.Section, op.Index)
	case domain.OpMoveItem:
		return w.MoveItem(op.Section, op.Index, op.To)
	case domain.OpAddResponsibility:
		return w.AddResponsibility(op.Index)
	case domain.OpRemoveResponsibility:
		return w.RemoveResponsibility(op.Index, op.SubIndex)
	case domain.OpAddSubSection:
		_, ok := w.AddCustomSubSection(op.Index)
		return ok
	case domain.OpRemoveSubSection:
		return w.RemoveCustomSubSection(op.Index, op.SubIndex)
	case domain.OpSetSubSectionField:
		return w.SetCustomSubSectionField(op.Index, op.SubIndex, op.Field, op.Value)
	}
	return false
}
