package consist

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/kujuconsist/internal/ctxlog"
	"github.com/vk/kujuconsist/internal/kuju"
	"github.com/vk/kujuconsist/internal/train"
	"github.com/vk/kujuconsist/internal/vehicle"
)

const doorDeploymentTime = 1000.0

var vehiclePair = []kuju.Token{kuju.TokenEngineData, kuju.TokenWagonData, kuju.TokenUiD}

// Parse walks b and everything below it into s. The returned error is the
// result for this subtree only; callers iterating siblings log it and go
// on with the next one.
func Parse(ctx context.Context, s *Session, b kuju.Block) error {
	switch b.Token() {
	case kuju.TokenTrainCfg:
		return parseTrainCfg(ctx, s, b)

	case kuju.TokenSerial, kuju.TokenMaxVelocity, kuju.TokenNextWagonUID, kuju.TokenDurability,
		kuju.TokenName, kuju.TokenComment, kuju.TokenSkip:
		return nil

	case kuju.TokenEngine:
		return parseVehicle(ctx, s, b, true)

	case kuju.TokenWagon:
		return parseVehicle(ctx, s, b, false)

	case kuju.TokenUiD, kuju.TokenEngineData, kuju.TokenWagonData:
		// Slots are only allocated for complete Engine or Wagon entries.
		return fmt.Errorf("%s outside an Engine or Wagon entry", b.Name())

	case kuju.TokenFlip:
		s.reverse = true
		return nil

	default:
		child, err := b.ReadSubBlock()
		if err != nil {
			return fmt.Errorf("unwrap %s: %w", b.Name(), err)
		}
		return Parse(ctx, s, child)
	}
}

func parseTrainCfg(ctx context.Context, s *Session, b kuju.Block) error {
	logger := ctxlog.FromContext(ctx)

	name, err := b.ReadString()
	if err != nil {
		return fmt.Errorf("TrainCfg name: %w", err)
	}
	logger.Debug("Reading train configuration.", "name", name)

	for b.Remaining() > 1 {
		child, err := b.ReadSubBlock()
		if err != nil {
			logger.Warn("Cannot locate the next TrainCfg entry, skipping the rest.",
				"error", err, ctxlog.CategoryKey, ctxlog.CategorySubtreeParseError)
			break
		}
		if err := Parse(ctx, s, child); err != nil {
			logger.Warn("TrainCfg entry skipped.", "block", child.Name(), "error", err,
				ctxlog.CategoryKey, ctxlog.CategorySubtreeParseError)
		}
	}
	return nil
}

// parseVehicle handles an Engine or Wagon entry. Its two children must be
// a UiD and the matching data block, in either order. The pair is checked
// before a slot is allocated so a malformed entry leaves no hole.
func parseVehicle(ctx context.Context, s *Session, b kuju.Block, isEngine bool) error {
	logger := ctxlog.FromContext(ctx)

	want := kuju.TokenWagonData
	if isEngine {
		want = kuju.TokenEngineData
	}

	reverse := s.reverse

	first, err := readPairMember(b, &reverse)
	if err != nil {
		return fmt.Errorf("%s entry: %w", b.Name(), err)
	}
	second, err := readPairMember(b, &reverse)
	if err != nil {
		return fmt.Errorf("%s entry: %w", b.Name(), err)
	}

	var uid, data kuju.Block
	switch {
	case first.Token() == kuju.TokenUiD && second.Token() == want:
		uid, data = first, second
	case first.Token() == want && second.Token() == kuju.TokenUiD:
		uid, data = second, first
	default:
		return fmt.Errorf("%s entry holds %s and %s, expected UiD and %s", b.Name(), first.Token(), second.Token(), want)
	}
	// A pending Flip survives a malformed entry and applies to the next one.
	s.reverse = false

	allocateSlot(ctx, s, uid)
	s.car = nil
	if err := parseVehicleData(ctx, s, data, isEngine); err != nil {
		logger.Warn("Vehicle reference unreadable, car keeps defaults.", "car", s.current, "error", err,
			ctxlog.CategoryKey, ctxlog.CategorySubtreeParseError)
	}

	car := s.car
	if car == nil {
		car = s.newCar()
	}
	car.Doors = []train.Door{
		{Side: -1, DeploymentTime: doorDeploymentTime},
		{Side: 1, DeploymentTime: doorDeploymentTime},
	}
	if reverse {
		car.Reverse()
	}
	s.Train.Cars[s.current] = car
	s.car = nil
	return nil
}

// allocateSlot appends an empty slot for the entry being read.
func allocateSlot(ctx context.Context, s *Session, uid kuju.Block) {
	s.Train.Cars = append(s.Train.Cars, nil)
	s.current = len(s.Train.Cars) - 1
	if id, err := uid.ReadInt32(); err == nil {
		ctxlog.FromContext(ctx).Debug("Vehicle slot allocated.", "uid", id, "car", s.current)
	}
}

// readPairMember reads the next UiD or data child of a vehicle entry.
// Editors also write Flip inside the entry; it applies to that entry.
func readPairMember(b kuju.Block, reverse *bool) (kuju.Block, error) {
	for {
		child, err := b.ReadSubBlock(vehiclePair...)
		var unexpected *kuju.UnexpectedTokenError
		if errors.As(err, &unexpected) && unexpected.Got == kuju.TokenFlip {
			*reverse = true
			continue
		}
		return child, err
	}
}

// parseVehicleData reads the name and optional folder of a vehicle
// reference and resolves it onto a fresh car.
func parseVehicleData(ctx context.Context, s *Session, b kuju.Block, isEngine bool) error {
	logger := ctxlog.FromContext(ctx).With("car", s.current)
	car := s.newCar()

	fields, err := b.ReadStringArray()
	if err != nil {
		return fmt.Errorf("%s: %w", b.Name(), err)
	}

	var name, folder string
	switch n := len(fields); {
	case n == 0:
		logger.Error("Vehicle reference names no vehicle.",
			ctxlog.CategoryKey, ctxlog.CategoryParameterCountError)
		return nil
	case n == 1:
		name = fields[0]
		logger.Warn("Vehicle reference has no folder, searching the whole trainset.", "name", name,
			ctxlog.CategoryKey, ctxlog.CategoryMissingFolderHint)
	case n == 2:
		name, folder = fields[0], fields[1]
	default:
		name, folder = fields[0], fields[1]
		logger.Warn("Unexpected vehicle reference parameter count.", "count", n, "name", name, "folder", folder,
			ctxlog.CategoryKey, ctxlog.CategoryParameterCountError)
	}

	if s.Resolver == nil {
		return nil
	}
	err = s.Resolver.Resolve(ctx, folder, name, isEngine, car)
	var rerr *vehicle.ResolutionError
	if errors.As(err, &rerr) {
		// Already reported by the resolver; the car stays as far as it got.
		return nil
	}
	return err
}
