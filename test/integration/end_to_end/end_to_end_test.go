package end_to_end_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hengadev/blockx"
	"github.com/hengadev/blockx/internal/fixtures/audit"
	"github.com/hengadev/blockx/internal/fixtures/collections"
	"github.com/hengadev/blockx/internal/fixtures/geo"
	"github.com/hengadev/blockx/internal/fixtures/geo/grid"
	"github.com/hengadev/blockx/serializer"
)

const fixtures = "github.com/hengadev/blockx/internal/fixtures"

var envKeys = []string{"BLOCKX_ENV", "BLOCKX_LOG_LEVEL", "BLOCKX_PACKAGES", "BLOCKX_CLASSES", "BLOCKX_MARKERS"}

// EndToEndTestSuite drives a blocklist from configuration to encoding.
type EndToEndTestSuite struct {
	suite.Suite
	tempDir string
	logs    *observer.ObservedLogs
	logger  *zap.Logger
	metrics *prometheus.Registry
	mapper  *serializer.Mapper
	module  *blockx.Module
}

func (suite *EndToEndTestSuite) SetupSuite() {
	suite.tempDir = suite.T().TempDir()

	envFile := filepath.Join(suite.tempDir, ".env")
	content := "BLOCKX_ENV=dev\n" +
		"BLOCKX_LOG_LEVEL=debug\n" +
		"BLOCKX_PACKAGES=" + fixtures + "/collections\n" +
		"BLOCKX_CLASSES=" + fixtures + "/geo/grid.Cell\n" +
		"BLOCKX_MARKERS=" + fixtures + "/audit.Sensitive\n"
	require.NoError(suite.T(), os.WriteFile(envFile, []byte(content), 0644))

	cfg, err := blockx.LoadConfigFromEnvironment(envFile)
	require.NoError(suite.T(), err)
	suite.Equal("dev", cfg.Env)

	core, logs := observer.New(zap.DebugLevel)
	suite.logs = logs
	suite.logger = zap.New(core)
	suite.metrics = prometheus.NewRegistry()

	b, err := blockx.BuilderFromConfig(cfg,
		blockx.WithLogger(suite.logger),
		blockx.WithMetrics(suite.metrics),
	)
	require.NoError(suite.T(), err)

	suite.module, err = b.Markers(blockx.TypeOf[audit.Redactable]()).Build()
	require.NoError(suite.T(), err)

	suite.mapper, err = serializer.NewMapper(serializer.WithMapperLogger(suite.logger))
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.mapper.RegisterModule(suite.module))
}

func (suite *EndToEndTestSuite) TearDownSuite() {
	for _, key := range envKeys {
		os.Unsetenv(key)
	}
}

func (suite *EndToEndTestSuite) TestBlockedTypes() {
	assert.ElementsMatch(suite.T(), []reflect.Type{
		blockx.TypeOf[collections.ImmutableList](),
		blockx.TypeOf[collections.ImmutableMap](),
		blockx.TypeOf[grid.Cell](),
		blockx.TypeOf[geo.Polygon](),
		blockx.TypeOf[audit.Token](),
	}, suite.module.Types())

	expected := `
# HELP blockx_blocked_types Number of types blocked by the last built module, by the rule kind that resolved them
# TYPE blockx_blocked_types gauge
blockx_blocked_types{rule="class"} 1
blockx_blocked_types{rule="marker"} 2
blockx_blocked_types{rule="package"} 2
`
	assert.NoError(suite.T(), testutil.GatherAndCompare(suite.metrics, strings.NewReader(expected), "blockx_blocked_types"))
}

func (suite *EndToEndTestSuite) TestEncoding() {
	tests := []struct {
		name    string
		value   any
		denied  bool
		errPath string
	}{
		{name: "plain struct", value: geo.Label{Text: "home", At: geo.Point{X: 1, Y: 2}}},
		{name: "audit entry", value: audit.Entry{Actor: "ops", Action: "login", At: time.Unix(0, 0).UTC()}},
		{name: "blocked package", value: collections.MapOf(map[string]int{"a": 1}), denied: true, errPath: "$"},
		{name: "blocked class", value: []grid.Cell{{Row: 1}}, denied: true, errPath: "$[0]"},
		{name: "marker embed", value: &geo.Polygon{}, denied: true, errPath: "$"},
		{name: "interface marker", value: map[string]audit.Token{"t": {Value: "x"}}, denied: true, errPath: `$["t"]`},
		{name: "nested field", value: struct {
			Entries []audit.Entry            `json:"entries"`
			Tags    collections.ImmutableList `json:"tags"`
		}{Tags: collections.ListOf(1)}, denied: true, errPath: "$.tags"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			out, err := suite.mapper.Marshal(tt.value)
			if !tt.denied {
				require.NoError(suite.T(), err)
				want, err := json.Marshal(tt.value)
				require.NoError(suite.T(), err)
				assert.JSONEq(suite.T(), string(want), string(out))
				return
			}

			require.Error(suite.T(), err)
			assert.Nil(suite.T(), out)
			assert.True(suite.T(), blockx.IsDenied(err))

			var encErr *serializer.EncodeError
			require.ErrorAs(suite.T(), err, &encErr)
			assert.Equal(suite.T(), tt.errPath, encErr.Path)
		})
	}
}

func (suite *EndToEndTestSuite) TestConcurrentEncoding() {
	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := range 32 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := suite.mapper.Marshal(geo.Point{X: float64(i)}); err != nil {
				errs <- err
			}
			if _, err := suite.mapper.Marshal(grid.Cell{Row: i}); !blockx.IsDenied(err) {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		suite.Fail("unexpected result", "%v", err)
	}
}

func (suite *EndToEndTestSuite) TestModuleRegisteredOnce() {
	require.NoError(suite.T(), suite.mapper.RegisterModule(suite.module))
	assert.Equal(suite.T(), []string{suite.module.ID()}, suite.mapper.Modules())
	assert.Equal(suite.T(), 1, suite.logs.FilterMessage("module registered").Len())
}

func TestEndToEndSuite(t *testing.T) {
	suite.Run(t, new(EndToEndTestSuite))
}
