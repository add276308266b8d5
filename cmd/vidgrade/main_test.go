package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/vidgrade"
	main "github.com/fwojciec/vidgrade/cmd/vidgrade"
	"github.com/fwojciec/vidgrade/lipgloss"
	"github.com/fwojciec/vidgrade/mock"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scorerFunc func(ctx context.Context, f *vidgrade.Features) (*vidgrade.Report, error)

func (fn scorerFunc) Run(ctx context.Context, f *vidgrade.Features) (*vidgrade.Report, error) {
	return fn(ctx, f)
}

func reportFor(f *vidgrade.Features) *vidgrade.Report {
	return &vidgrade.Report{
		ID:      "res_" + f.VideoID,
		VideoID: f.VideoID,
		Evaluation: &vidgrade.EvaluationResult{
			OverallScore: 75,
			Grade:        vidgrade.GradeBPlus,
		},
	}
}

func loaderOf(records ...vidgrade.Features) *mock.FeatureLoader {
	return &mock.FeatureLoader{
		LoadFn: func(path string) ([]vidgrade.Features, error) {
			return records, nil
		},
	}
}

func TestApp_Score_Success(t *testing.T) {
	t.Parallel()

	var loadedPath string
	var scored []string
	var out bytes.Buffer

	app := &main.App{
		Out: &out,
		Loader: &mock.FeatureLoader{
			LoadFn: func(path string) ([]vidgrade.Features, error) {
				loadedPath = path
				return []vidgrade.Features{{VideoID: "a"}, {VideoID: "b"}}, nil
			},
		},
		Scorer: scorerFunc(func(_ context.Context, f *vidgrade.Features) (*vidgrade.Report, error) {
			scored = append(scored, f.VideoID)
			return reportFor(f), nil
		}),
		Formatter: &main.JSONFormatter{},
	}

	err := app.Score(context.Background(), "features.jsonl")

	require.NoError(t, err)
	assert.Equal(t, "features.jsonl", loadedPath)
	assert.Equal(t, []string{"a", "b"}, scored)

	dec := json.NewDecoder(&out)
	var ids []string
	for dec.More() {
		var r vidgrade.Report
		require.NoError(t, dec.Decode(&r))
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"res_a", "res_b"}, ids)
}

func TestApp_Score_LoadError(t *testing.T) {
	t.Parallel()

	loadErr := errors.New("bad input")
	app := &main.App{
		Out: &bytes.Buffer{},
		Loader: &mock.FeatureLoader{
			LoadFn: func(string) ([]vidgrade.Features, error) { return nil, loadErr },
		},
		Formatter: &main.JSONFormatter{},
	}

	err := app.Score(context.Background(), "x")

	assert.ErrorIs(t, err, loadErr)
}

func TestApp_Score_NoFeatures(t *testing.T) {
	t.Parallel()

	app := &main.App{
		Out:       &bytes.Buffer{},
		Loader:    loaderOf(),
		Formatter: &main.JSONFormatter{},
	}

	err := app.Score(context.Background(), "x")

	assert.ErrorIs(t, err, main.ErrNoFeatures)
}

func TestApp_Score_ContinuesPastFailure(t *testing.T) {
	t.Parallel()

	saveErr := errors.New("disk full")
	var out bytes.Buffer
	var scored []string

	app := &main.App{
		Out:    &out,
		Loader: loaderOf(vidgrade.Features{VideoID: "a"}, vidgrade.Features{VideoID: "b"}, vidgrade.Features{VideoID: "c"}),
		Scorer: scorerFunc(func(_ context.Context, f *vidgrade.Features) (*vidgrade.Report, error) {
			scored = append(scored, f.VideoID)
			switch f.VideoID {
			case "a":
				// Scored but not persisted.
				return reportFor(f), saveErr
			case "b":
				return nil, errors.New("boom")
			}
			return reportFor(f), nil
		}),
		Formatter: &main.JSONFormatter{},
	}

	err := app.Score(context.Background(), "x")

	require.Error(t, err)
	assert.ErrorIs(t, err, saveErr)
	assert.Contains(t, err.Error(), `video "a"`)
	assert.Equal(t, []string{"a", "b", "c"}, scored)
	assert.Contains(t, out.String(), "res_a")
	assert.Contains(t, out.String(), "res_c")
}

func TestApp_Score_StopsWhenCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var scored int

	app := &main.App{
		Out:    &bytes.Buffer{},
		Loader: loaderOf(vidgrade.Features{VideoID: "a"}, vidgrade.Features{VideoID: "b"}),
		Scorer: scorerFunc(func(ctx context.Context, _ *vidgrade.Features) (*vidgrade.Report, error) {
			scored++
			cancel()
			return nil, ctx.Err()
		}),
		Formatter: &main.JSONFormatter{},
	}

	err := app.Score(ctx, "x")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, scored)
}

func TestApp_Show(t *testing.T) {
	t.Parallel()

	t.Run("formats the stored report", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		app := &main.App{
			Out: &out,
			Store: &mock.ReportStore{
				FindFn: func(_ context.Context, id string) (*vidgrade.Report, error) {
					return &vidgrade.Report{ID: id, VideoID: "v9"}, nil
				},
			},
			Formatter: &main.JSONFormatter{},
		}

		require.NoError(t, app.Show(context.Background(), "res_000000000001"))

		var r vidgrade.Report
		require.NoError(t, json.Unmarshal(out.Bytes(), &r))
		assert.Equal(t, "res_000000000001", r.ID)
		assert.Equal(t, "v9", r.VideoID)
	})

	t.Run("propagates not found", func(t *testing.T) {
		t.Parallel()

		app := &main.App{
			Out: &bytes.Buffer{},
			Store: &mock.ReportStore{
				FindFn: func(context.Context, string) (*vidgrade.Report, error) {
					return nil, vidgrade.ErrReportNotFound
				},
			},
			Formatter: &main.JSONFormatter{},
		}

		err := app.Show(context.Background(), "missing")

		assert.ErrorIs(t, err, vidgrade.ErrReportNotFound)
	})
}

func TestApp_List(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	app := &main.App{
		Out: &out,
		Store: &mock.ReportStore{
			ListFn: func(context.Context) ([]*vidgrade.Report, error) {
				return []*vidgrade.Report{reportFor(&vidgrade.Features{VideoID: "v1"})}, nil
			},
		},
		Formatter: &main.TextFormatter{
			Renderer: lipgloss.NewRenderer(&out, lipgloss.WithColorProfile(termenv.Ascii)),
		},
	}

	require.NoError(t, app.List(context.Background()))

	assert.Contains(t, out.String(), "res_v1")
	assert.Contains(t, out.String(), "75.0")
	assert.Contains(t, out.String(), "B+")
}

func TestApp_Browse(t *testing.T) {
	t.Parallel()

	t.Run("views every stored report", func(t *testing.T) {
		t.Parallel()

		stored := []*vidgrade.Report{{ID: "res_1"}, {ID: "res_2"}}
		var viewed []*vidgrade.Report
		app := &main.App{
			Store: &mock.ReportStore{
				ListFn: func(context.Context) ([]*vidgrade.Report, error) { return stored, nil },
			},
			Viewer: &mock.ReportViewer{
				ViewFn: func(_ context.Context, reports []*vidgrade.Report) error {
					viewed = reports
					return nil
				},
			},
		}

		require.NoError(t, app.Browse(context.Background()))
		assert.Equal(t, stored, viewed)
	})

	t.Run("empty store", func(t *testing.T) {
		t.Parallel()

		app := &main.App{
			Store: &mock.ReportStore{
				ListFn: func(context.Context) ([]*vidgrade.Report, error) { return nil, nil },
			},
			Viewer: &mock.ReportViewer{},
		}

		assert.ErrorIs(t, app.Browse(context.Background()), main.ErrNoReports)
	})
}

func TestJSONFormatter_FormatList_Empty(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, (&main.JSONFormatter{}).FormatList(&out, nil))

	assert.Equal(t, "[]\n", out.String())
}

func TestWritePlatforms(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, main.WritePlatforms(&out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "* claude"))
	assert.Contains(t, lines[0], "ANTHROPIC_API_KEY")
	assert.Contains(t, out.String(), "AIHUBMIX_API_KEY")
	assert.Contains(t, out.String(), "gemini")
}

func TestRootCmd_Config(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "vidgrade.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai:\n  platform: aihubmix\n"), 0o644))

	var out bytes.Buffer
	cmd := main.NewRootCmd(strings.NewReader(""), &out, &bytes.Buffer{})
	cmd.SetArgs([]string{"config", "--config", path, "--store", "/tmp/reports.jsonl"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "platform: aihubmix")
	assert.Contains(t, out.String(), "path: /tmp/reports.jsonl")
}

func TestRootCmd_ScoreThenShow(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := filepath.Join(dir, "reports.jsonl")
	cfgPath := filepath.Join(dir, "vidgrade.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  verbose: false\n"), 0o644))
	features := `{"video_id":"v1","duration":10,"transcript":[{"start":0,"end":2,"text":"你知道吗为什么"},{"start":8,"end":10,"text":"立即购买"}],"shots":[{"start":0,"end":2},{"start":2,"end":4},{"start":4,"end":6},{"start":6,"end":8},{"start":8,"end":10}]}`

	var out bytes.Buffer
	cmd := main.NewRootCmd(strings.NewReader(features), &out, &bytes.Buffer{})
	cmd.SetArgs([]string{"score", "-", "--no-ai", "--json", "--config", cfgPath, "--store", store})
	require.NoError(t, cmd.Execute())

	var report vidgrade.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "v1", report.VideoID)
	assert.Regexp(t, `^res_[0-9a-f]{12}$`, report.ID)
	require.NotNil(t, report.Evaluation)
	assert.Nil(t, report.AIEvaluation)

	out.Reset()
	cmd = main.NewRootCmd(strings.NewReader(""), &out, &bytes.Buffer{})
	cmd.SetArgs([]string{"show", report.ID, "--config", cfgPath, "--store", store, "--no-color"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "视频质量报告")
	assert.Contains(t, out.String(), report.ID)
}

func TestRootCmd_MissingConfigFails(t *testing.T) {
	t.Parallel()

	cmd := main.NewRootCmd(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	cmd.SetArgs([]string{"config", "--config", filepath.Join(t.TempDir(), "typo.yaml")})

	err := cmd.Execute()

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRootCmd_ScoreRequiresInput(t *testing.T) {
	t.Parallel()

	cmd := main.NewRootCmd(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	cmd.SetArgs([]string{"score"})

	assert.Error(t, cmd.Execute())
}
