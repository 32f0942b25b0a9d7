package consist_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/kujuconsist/internal/consist"
	"github.com/vk/kujuconsist/internal/kuju"
	"github.com/vk/kujuconsist/internal/kuju/kujutest"
	"github.com/vk/kujuconsist/internal/testutil"
	"github.com/vk/kujuconsist/internal/train"
)

func consistText(entries ...string) []byte {
	return kujutest.Text(`
Train (
	TrainCfg ( "Test Consist"
		Name ( "Test Consist" )
		Serial ( 1 )
		MaxVelocity ( 44.7 0.5 )
		NextWagonUID ( 9 )
		Durability ( 1 )
		`+strings.Join(entries, "\n\t\t")+`
	)
)`, kujutest.Options{})
}

func wagonEntry(uid int, name, folder string) string {
	return fmt.Sprintf(`Wagon ( WagonData ( %s %s ) UiD ( %d ) )`, name, folder, uid)
}

func engineEntry(uid int, name, folder string) string {
	return fmt.Sprintf(`Engine ( UiD ( %d ) EngineData ( %s %s ) )`, uid, name, folder)
}

// writeTrainset lays out a small trainset with one engine and two wagons.
func writeTrainset(t *testing.T, l *testutil.Layout) {
	t.Helper()
	l.WriteTrainset(t, "acela/loco.eng", kujutest.Text(`
Wagon ( Loco Type ( Engine ) Size ( 3m 4m 20m ) Mass ( 100t ) )
Engine ( Loco Type ( Electric ) )`, kujutest.Options{}))
	l.WriteTrainset(t, "acela/coach.wag", kujutest.Text(`Wagon ( Coach Type ( Carriage ) Size ( 3m 4m 25m ) Mass ( 40t ) )`, kujutest.Options{Compressed: true}))
	l.WriteTrainset(t, "acela/box.wag", kujutest.Text(`Wagon ( Box Type ( Freight ) Size ( 3m 4m 15m ) Mass ( 20t ) )`, kujutest.Options{Encoding: kuju.EncodingUTF16}))
}

type resolveCall struct {
	folder string
	name   string
	engine bool
}

type fakeResolver struct {
	calls []resolveCall
}

func (f *fakeResolver) Resolve(_ context.Context, folder, name string, isEngine bool, car *train.Car) error {
	f.calls = append(f.calls, resolveCall{folder: folder, name: name, engine: isEngine})
	car.Name = name
	return nil
}

func TestLoad_CarsInFileOrderWithRoles(t *testing.T) {
	ctx, logs := testutil.LogContext(t)
	l := testutil.NewLayout(t)
	writeTrainset(t, l)
	path := l.WriteConsist(t, "acela.con", consistText(
		engineEntry(0, "Loco", "acela"),
		wagonEntry(1, "Coach", "acela"),
		wagonEntry(2, "Box", "acela"),
		wagonEntry(3, "Coach", "acela"),
	))

	tr := train.New()
	require.NoError(t, consist.Load(ctx, path, tr, consist.Options{}))

	require.Len(t, tr.Cars, 4)
	var names []string
	for i, c := range tr.Cars {
		require.NotNil(t, c)
		assert.Equal(t, i, c.Index)
		names = append(names, c.Name)
		assert.Len(t, c.Doors, 2)
	}
	assert.Equal(t, []string{"Loco", "Coach", "Box", "Coach"}, names)

	loco, last := tr.Cars[0], tr.Cars[3]
	assert.True(t, loco.IsMotorCar)
	assert.InDelta(t, 20, loco.Length, 1e-9)
	assert.InDelta(t, 100000, loco.EmptyMass, 1e-9)
	assert.Equal(t, train.TriggerFrontCarFrontAxle, loco.FrontAxle.TriggerType)
	assert.Equal(t, train.TriggerTrainFront, loco.BeaconReceiver.TriggerType)
	assert.InDelta(t, 8, loco.FrontAxle.Position, 1e-9)

	for _, c := range tr.Cars[1:3] {
		assert.Equal(t, train.TriggerOtherCarFrontAxle, c.FrontAxle.TriggerType)
		assert.Equal(t, train.TriggerOtherCarRearAxle, c.RearAxle.TriggerType)
		assert.Equal(t, train.TriggerNone, c.BeaconReceiver.TriggerType)
	}
	assert.Equal(t, train.TriggerRearCarRearAxle, last.RearAxle.TriggerType)
	assert.Equal(t, filepath.Join(l.Trainset, "acela", "coach.wag"), last.WagonFile)

	assert.Len(t, tr.Couplers, 3)
	assert.Equal(t, []int{-1, 1}, []int{loco.Doors[0].Side, loco.Doors[1].Side})
	assert.InDelta(t, 1000.0, loco.Doors[0].DeploymentTime, 1e-9)

	testutil.AssertCategoryNotLogged(t, logs.String(), "resolution_error")
	testutil.AssertCategoryNotLogged(t, logs.String(), "subtree_parse_error")
}

func TestLoad_BinaryCompressedConsist(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	l := testutil.NewLayout(t)
	writeTrainset(t, l)

	enc := kuju.EncodingLegacy
	body := kujutest.Record(kuju.TokenTrain,
		kujutest.Record(kuju.TokenTrainCfg,
			kujutest.String("binary", enc),
			kujutest.Record(kuju.TokenSerial, kujutest.Uint32(2)),
			kujutest.Record(kuju.TokenEngine,
				kujutest.Record(kuju.TokenUiD, kujutest.Uint32(0)),
				kujutest.Record(kuju.TokenEngineData, kujutest.Strings(enc, "Loco", "acela")),
			),
			kujutest.Record(kuju.TokenWagon,
				kujutest.Record(kuju.TokenWagonData, kujutest.Strings(enc, "Box", "acela")),
				kujutest.Record(kuju.TokenUiD, kujutest.Uint32(1)),
			),
		),
	)
	path := l.WriteConsist(t, "bin.con", kujutest.Binary(body, kujutest.Options{Compressed: true}))

	tr := train.New()
	require.NoError(t, consist.Load(ctx, path, tr, consist.Options{}))
	require.Len(t, tr.Cars, 2)
	assert.Equal(t, "Loco", tr.Cars[0].Name)
	assert.Equal(t, "Box", tr.Cars[1].Name)
	assert.InDelta(t, 15, tr.Cars[1].Length, 1e-9)
}

func TestLoad_FlipReversesExactlyOneCar(t *testing.T) {
	testCases := []struct {
		name    string
		entries []string
	}{
		{
			name: "flip before entry",
			entries: []string{
				wagonEntry(0, "A", "x"),
				`Flip ( )`,
				wagonEntry(1, "B", "x"),
				wagonEntry(2, "C", "x"),
			},
		},
		{
			name: "flip inside entry",
			entries: []string{
				wagonEntry(0, "A", "x"),
				`Wagon ( Flip ( ) UiD ( 1 ) WagonData ( B x ) )`,
				wagonEntry(2, "C", "x"),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.LogContext(t)
			l := testutil.NewLayout(t)
			path := l.WriteConsist(t, "flip.con", consistText(tc.entries...))

			tr := train.New()
			require.NoError(t, consist.Load(ctx, path, tr, consist.Options{Resolver: &fakeResolver{}}))

			require.Len(t, tr.Cars, 3)
			assert.Equal(t, []bool{false, true, false},
				[]bool{tr.Cars[0].Reversed, tr.Cars[1].Reversed, tr.Cars[2].Reversed})
		})
	}
}

func TestParse_VehicleReferenceParameterCounts(t *testing.T) {
	testCases := []struct {
		name        string
		data        string
		wantCalls   []resolveCall
		wantLogged  []string
		notExpected []string
	}{
		{
			name:        "no entries",
			data:        `WagonData ( )`,
			wantLogged:  []string{"parameter_count_error"},
			notExpected: []string{"missing_folder_hint"},
		},
		{
			name:        "name only",
			data:        `WagonData ( Coach )`,
			wantCalls:   []resolveCall{{folder: "", name: "Coach"}},
			wantLogged:  []string{"missing_folder_hint"},
			notExpected: []string{"parameter_count_error"},
		},
		{
			name:        "name and folder",
			data:        `WagonData ( Coach acela )`,
			wantCalls:   []resolveCall{{folder: "acela", name: "Coach"}},
			notExpected: []string{"parameter_count_error", "missing_folder_hint"},
		},
		{
			name:        "extra entries",
			data:        `WagonData ( Coach acela spare )`,
			wantCalls:   []resolveCall{{folder: "acela", name: "Coach"}},
			wantLogged:  []string{"parameter_count_error"},
			notExpected: []string{"missing_folder_hint"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, logs := testutil.LogContext(t)
			res := &fakeResolver{}
			tr := train.New()
			s := consist.NewSession(tr, nil, res)

			entry := kuju.NewTextualBlock(tc.data+` UiD ( 7 )`, kuju.TokenWagon)
			require.NoError(t, consist.Parse(ctx, s, entry))

			require.Len(t, tr.Cars, 1, "the car exists whatever the reference holds")
			assert.Equal(t, tc.wantCalls, res.calls)
			for _, c := range tc.wantLogged {
				testutil.AssertCategoryLogged(t, logs.String(), c)
			}
			for _, c := range tc.notExpected {
				testutil.AssertCategoryNotLogged(t, logs.String(), c)
			}
		})
	}
}

func TestParse_MalformedEntryAllocatesNoSlot(t *testing.T) {
	ctx, logs := testutil.LogContext(t)
	tr := train.New()
	s := consist.NewSession(tr, nil, &fakeResolver{})

	cfg := kuju.NewTextualBlock(`cfg
		Wagon ( UiD ( 0 ) UiD ( 1 ) )
		Wagon ( UiD ( 2 ) EngineData ( Loco x ) )
		Engine ( UiD ( 3 ) )
		Wagon ( WagonData ( Good x ) UiD ( 4 ) )
		Mystery ( )
	`, kuju.TokenTrainCfg)
	require.NoError(t, consist.Parse(ctx, s, cfg))

	require.Len(t, tr.Cars, 1)
	assert.Equal(t, "Good", tr.Cars[0].Name)
	assert.Equal(t, 4, testutil.CountCategory(t, logs.String(), "subtree_parse_error"))
}

func TestParse_StrayPairMembersAllocateNoSlot(t *testing.T) {
	ctx, logs := testutil.LogContext(t)
	l := testutil.NewLayout(t)
	path := l.WriteConsist(t, "stray.con", consistText(
		`UiD ( 9 )`,
		`WagonData ( Lost x )`,
		wagonEntry(0, "Coach", "x"),
		`EngineData ( Lost x )`,
	))

	tr := train.New()
	res := &fakeResolver{}
	require.NoError(t, consist.Load(ctx, path, tr, consist.Options{Resolver: res}))

	require.Len(t, tr.Cars, 1)
	require.NotNil(t, tr.Cars[0])
	assert.Equal(t, "Coach", tr.Cars[0].Name)
	assert.Equal(t, []resolveCall{{folder: "x", name: "Coach"}}, res.calls)
	assert.Equal(t, 3, testutil.CountCategory(t, logs.String(), "subtree_parse_error"))
}

func TestParse_FlipSurvivesMalformedEntry(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	tr := train.New()
	s := consist.NewSession(tr, nil, &fakeResolver{})

	cfg := kuju.NewTextualBlock(`cfg
		Flip ( )
		Wagon ( UiD ( 0 ) UiD ( 1 ) )
		`+wagonEntry(2, "A", "x")+`
		`+wagonEntry(3, "B", "x")+`
	`, kuju.TokenTrainCfg)
	require.NoError(t, consist.Parse(ctx, s, cfg))

	require.Len(t, tr.Cars, 2)
	assert.True(t, tr.Cars[0].Reversed)
	assert.False(t, tr.Cars[1].Reversed)
}

func TestLoad_UnresolvedVehicleKeepsDefaultCar(t *testing.T) {
	ctx, logs := testutil.LogContext(t)
	l := testutil.NewLayout(t)
	writeTrainset(t, l)
	path := l.WriteConsist(t, "ghost.con", consistText(
		wagonEntry(0, "Coach", "acela"),
		wagonEntry(1, "Ghost", "acela"),
	))

	tr := train.New()
	require.NoError(t, consist.Load(ctx, path, tr, consist.Options{}))
	require.Len(t, tr.Cars, 2)
	assert.True(t, tr.Cars[0].Resolved())
	assert.False(t, tr.Cars[1].Resolved())
	assert.Equal(t, train.TriggerRearCarRearAxle, tr.Cars[1].RearAxle.TriggerType)
	testutil.AssertCategoryLogged(t, logs.String(), "resolution_error")
}

func TestLoad_FatalFailures(t *testing.T) {
	t.Run("bad header", func(t *testing.T) {
		ctx, logs := testutil.LogContext(t)
		l := testutil.NewLayout(t)
		path := l.WriteConsist(t, "bad.con", kujutest.Text(`Train ( )`, kujutest.Options{Magic: "NOTSIMIS"}))

		err := consist.Load(ctx, path, train.New(), consist.Options{Resolver: &fakeResolver{}})
		require.Error(t, err)
		assert.True(t, kuju.IsFormatError(err))
		testutil.AssertCategoryLogged(t, logs.String(), "format_error")
	})

	t.Run("outside TRAINS", func(t *testing.T) {
		ctx, logs := testutil.LogContext(t)
		path := filepath.Join(t.TempDir(), "routes", "x.con")

		err := consist.Load(ctx, path, train.New(), consist.Options{Resolver: &fakeResolver{}})
		require.Error(t, err)
		assert.True(t, kuju.IsFormatError(err))
		testutil.AssertCategoryLogged(t, logs.String(), "format_error")
	})

	t.Run("no cars", func(t *testing.T) {
		ctx, _ := testutil.LogContext(t)
		l := testutil.NewLayout(t)
		path := l.WriteConsist(t, "empty.con", consistText())

		err := consist.Load(ctx, path, train.New(), consist.Options{Resolver: &fakeResolver{}})
		assert.ErrorIs(t, err, consist.ErrEmptyConsist)
	})
}

func TestTrainsetDir(t *testing.T) {
	l := testutil.NewLayout(t)
	path := filepath.Join(l.Consists, "a.con")

	dir, err := consist.TrainsetDir(path, "")
	require.NoError(t, err)
	assert.Equal(t, l.Trainset, dir)

	dir, err = consist.TrainsetDir(path, "/elsewhere")
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere", dir)
}
