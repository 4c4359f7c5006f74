package domain

import (
	"context"
	"log/slog"

	"jsdelta.dev/pkg/jsdelta/internal/syntax"
)

// Function forms whose name may be dropped.
var anonymousForms = map[string]bool{
	"function_expression": true,
	"function":            true,
	"generator_function":  true,
}

// minimise simplifies the node at ref by the rule for its category.
//
//nolint:cyclop // One arm per category.
func (s *session) minimise(ctx context.Context, ref syntax.Ref) error {
	n := ref.Get()
	if n == nil {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	switch n.Category {
	case syntax.CategorySequence:
		return s.minimiseSequence(ctx, ref, n)
	case syntax.CategoryFunction:
		return s.minimiseFunction(ctx, n)
	case syntax.CategoryObject:
		return s.minimiseList(ctx, n.Slot(syntax.SlotProps), false, true)
	case syntax.CategoryBinding:
		// Always at least one declarator, even in quick mode.
		return s.minimiseList(ctx, n.Slot(syntax.SlotDecls), true, false)
	}

	if s.quick {
		return s.minimiseChildren(ctx, n)
	}

	switch n.Category {
	case syntax.CategoryLiteral:
		return nil
	case syntax.CategoryUnary:
		return s.minimiseUnary(ctx, ref, n)
	case syntax.CategoryBinary:
		operands := []string{syntax.SlotLeft, syntax.SlotRight}

		return s.tryEach(ctx, ref, n, operands, operands)
	case syntax.CategoryReturn:
		return s.minimiseReturn(ctx, n)
	case syntax.CategoryCall:
		return s.minimiseCall(ctx, n)
	case syntax.CategoryNew:
		return s.minimiseNew(ctx, ref, n)
	case syntax.CategoryArray:
		return s.minimiseArray(ctx, ref, n)
	case syntax.CategoryConditional:
		return s.tryEach(ctx, ref, n,
			[]string{syntax.SlotThen, syntax.SlotElse, syntax.SlotTest},
			[]string{syntax.SlotTest, syntax.SlotThen, syntax.SlotElse},
		)
	case syntax.CategorySwitch:
		if err := s.minimise(ctx, syntax.FieldRef(n.Slot(syntax.SlotDiscriminant))); err != nil {
			return err
		}

		return s.minimiseList(ctx, n.Slot(syntax.SlotCases), false, false)
	case syntax.CategoryWhile:
		return s.tryEach(ctx, ref, n,
			[]string{syntax.SlotBody, syntax.SlotTest},
			[]string{syntax.SlotTest, syntax.SlotBody},
		)
	case syntax.CategoryFor:
		return s.minimiseFor(ctx, ref, n)
	default:
		return s.minimiseChildren(ctx, n)
	}
}

// minimiseList is chunk reduction over a list slot. Chunks of half the list
// size down to single elements are removed from the end backward; each
// removal that makes the candidate uninteresting is undone. With nonempty set
// the list is never emptied. Survivors are then minimised in turn, or, with
// twolevel set, their own children are.
func (s *session) minimiseList(ctx context.Context, list *syntax.Slot, nonempty, twolevel bool) error {
	if list == nil || !list.IsList {
		return nil
	}

	if !nonempty && len(list.List) == 1 {
		if _, err := s.removeChunk(ctx, list, 0, 1); err != nil {
			return err
		}
	} else {
		for size := len(list.List) / 2; size > 0; size /= 2 {
			chunks := len(list.List) / size

			for i := chunks - 1; i >= 0; i-- {
				lo, hi := i*size, (i+1)*size
				if i == chunks-1 {
					hi = len(list.List)
				}

				if nonempty && lo == 0 && hi == len(list.List) {
					continue
				}

				if _, err := s.removeChunk(ctx, list, lo, hi); err != nil {
					return err
				}
			}
		}
	}

	for i := 0; i < len(list.List); i++ {
		var err error
		if twolevel {
			err = s.minimiseChildren(ctx, list.List[i])
		} else {
			err = s.minimise(ctx, syntax.ElemRef(list, i))
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// removeChunk splices list[lo:hi] out and tests; the chunk is put back in
// place unless the candidate is interesting.
func (s *session) removeChunk(ctx context.Context, list *syntax.Slot, lo, hi int) (bool, error) {
	saved := list.List

	kept := make([]*syntax.Node, 0, len(saved)-(hi-lo))
	kept = append(kept, saved[:lo]...)
	kept = append(kept, saved[hi:]...)
	list.List = kept

	ok, err := s.test(ctx)
	if err != nil || !ok {
		list.List = saved
		return false, err
	}

	slog.Debug("removed chunk", "slot", list.Name, "from", lo, "to", hi)

	return true, nil
}

// minimiseChildren visits every slot of n: lists are chunk reduced, single
// children are minimised. Quick mode leaves call arguments alone.
func (s *session) minimiseChildren(ctx context.Context, n *syntax.Node) error {
	if n == nil {
		return nil
	}

	for _, slot := range n.Slots {
		if s.quick && slot.Name == syntax.SlotArgs {
			continue
		}

		var err error
		if slot.IsList {
			err = s.minimiseList(ctx, slot, false, false)
		} else {
			err = s.minimise(ctx, syntax.FieldRef(slot))
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (s *session) minimiseSequence(ctx context.Context, ref syntax.Ref, n *syntax.Node) error {
	body := n.Slot(syntax.SlotBody)
	if err := s.minimiseList(ctx, body, false, false); err != nil {
		return err
	}

	if s.quick || !n.IsBlock() || body == nil || len(body.List) != 1 || ref.Slot.Block {
		return nil
	}

	_, err := s.Replace(ref).With(ctx, body.List[0])

	return err
}

func (s *session) minimiseFunction(ctx context.Context, n *syntax.Node) error {
	if !s.quick {
		if anonymousForms[n.Type] {
			if _, err := s.Replace(syntax.FieldRef(n.Slot(syntax.SlotName))).With(ctx, nil); err != nil {
				return err
			}
		}

		if err := s.minimiseList(ctx, n.Slot(syntax.SlotParams), false, false); err != nil {
			return err
		}
	}

	bodySlot := n.Slot(syntax.SlotBody)
	body := n.Child(syntax.SlotBody)

	if !body.IsBlock() {
		// Arrow function with an expression body.
		return s.minimise(ctx, syntax.FieldRef(bodySlot))
	}

	stmts := body.Slot(syntax.SlotBody)
	if err := s.minimiseList(ctx, stmts, false, false); err != nil {
		return err
	}

	if s.quick || bodySlot.Block || len(stmts.List) != 1 {
		return nil
	}

	expr := expressionOf(stmts.List[0])
	if expr == nil {
		return nil
	}

	_, err := s.Replace(syntax.FieldRef(bodySlot)).With(ctx, expr)

	return err
}

// expressionOf returns the expression of an expression statement.
func expressionOf(stmt *syntax.Node) *syntax.Node {
	if stmt == nil || stmt.Type != "expression_statement" {
		return nil
	}

	for _, slot := range stmt.Slots {
		if !slot.IsList && slot.Node != nil {
			return slot.Node
		}
	}

	return nil
}

func (s *session) minimiseUnary(ctx context.Context, ref syntax.Ref, n *syntax.Node) error {
	operand := n.Child(syntax.SlotOperand)
	if operand == nil {
		return s.minimiseChildren(ctx, n)
	}

	ok, err := s.Replace(ref).With(ctx, operand)
	if err != nil {
		return err
	}

	if ok {
		return s.minimise(ctx, ref)
	}

	return s.minimise(ctx, syntax.FieldRef(n.Slot(syntax.SlotOperand)))
}

// tryEach replaces the node with each of the replacement children in turn
// and minimises the first replacement that sticks. When none does, the
// recurse children are minimised where they are.
func (s *session) tryEach(ctx context.Context, ref syntax.Ref, n *syntax.Node, replacements, recurse []string) error {
	for _, name := range replacements {
		child := n.Child(name)
		if child == nil {
			continue
		}

		ok, err := s.Replace(ref).With(ctx, child)
		if err != nil {
			return err
		}

		if ok {
			return s.minimise(ctx, ref)
		}
	}

	for _, name := range recurse {
		if err := s.minimise(ctx, syntax.FieldRef(n.Slot(name))); err != nil {
			return err
		}
	}

	return nil
}

func (s *session) minimiseReturn(ctx context.Context, n *syntax.Node) error {
	value := n.Slot(syntax.SlotValue)
	if value.Empty() {
		return nil
	}

	ok, err := s.Replace(syntax.FieldRef(value)).With(ctx, nil)
	if err != nil || ok {
		return err
	}

	return s.minimise(ctx, syntax.FieldRef(value))
}

func (s *session) minimiseCall(ctx context.Context, n *syntax.Node) error {
	if err := s.minimise(ctx, syntax.FieldRef(n.Slot(syntax.SlotCallee))); err != nil {
		return err
	}

	args := n.Slot(syntax.SlotArgs)
	if args == nil || !args.IsList {
		return nil
	}

	return s.minimiseList(ctx, args, false, false)
}

func (s *session) minimiseNew(ctx context.Context, ref syntax.Ref, n *syntax.Node) error {
	var args []*syntax.Node
	if slot := n.Slot(syntax.SlotArgs); slot != nil && slot.IsList {
		args = slot.List
	}

	ok, err := s.Replace(ref).With(ctx, syntax.NewCall(n.Child(syntax.SlotCallee), args))
	if err != nil {
		return err
	}

	if ok {
		n = ref.Get()
	}

	return s.minimiseCall(ctx, n)
}

func (s *session) minimiseArray(ctx context.Context, ref syntax.Ref, n *syntax.Node) error {
	elements := n.Slot(syntax.SlotElements)
	if elements.Empty() {
		return nil
	}

	ok, err := s.Replace(ref).With(ctx, syntax.NewEmptyArray())
	if err != nil || ok {
		return err
	}

	return s.minimiseList(ctx, elements, false, false)
}

// minimiseFor clears the test and update clauses without consulting the
// oracle, then tries the body and the test in place of the loop.
func (s *session) minimiseFor(ctx context.Context, ref syntax.Ref, n *syntax.Node) error {
	for _, name := range []string{syntax.SlotTest, syntax.SlotUpdate} {
		if slot := n.Slot(name); slot != nil && !slot.IsList {
			slot.Node = nil
		}
	}

	for _, name := range []string{syntax.SlotBody, syntax.SlotTest} {
		child := n.Child(name)
		if child == nil {
			continue
		}

		ok, err := s.Replace(ref).With(ctx, child)
		if err != nil {
			return err
		}

		if ok {
			return s.minimise(ctx, ref)
		}
	}

	for _, name := range []string{syntax.SlotInit, syntax.SlotTest, syntax.SlotUpdate, syntax.SlotBody} {
		if err := s.minimise(ctx, syntax.FieldRef(n.Slot(name))); err != nil {
			return err
		}
	}

	return nil
}
