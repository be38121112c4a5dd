package smoketest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/go-internist/devtools/pkg/avalai"
)

// RunnerConfig 冒烟测试运行参数
type RunnerConfig struct {
	// Cases 用例表，空值取 DefaultCases
	Cases []Case

	// Delay 相邻用例间的固定停顿（避免连续敲打远端），空值取 1s
	Delay time.Duration

	// CallTimeout 单次翻译调用超时，空值取 30s
	CallTimeout time.Duration

	// CheckTimeout 连通性探测超时，空值取 10s
	CheckTimeout time.Duration
}

func (c *RunnerConfig) applyDefaults() {
	if len(c.Cases) == 0 {
		c.Cases = DefaultCases()
	}
	if c.Delay <= 0 {
		c.Delay = time.Second
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 30 * time.Second
	}
	if c.CheckTimeout <= 0 {
		c.CheckTimeout = 10 * time.Second
	}
}

// Result 单条用例的执行结果
type Result struct {
	Case        Case
	StatusCode  int
	Elapsed     time.Duration
	Translation string
	Err         error
}

// Outcome 把结果归类为展示用的短标签
func (r Result) Outcome() string {
	switch {
	case r.Err == nil:
		return "OK"
	case avalai.IsTimeout(r.Err):
		return "TIMEOUT"
	case errors.Is(r.Err, avalai.ErrMissingOutputText):
		return "BAD RESPONSE"
	default:
		var statusErr *avalai.StatusError
		if errors.As(r.Err, &statusErr) {
			return fmt.Sprintf("HTTP %d", statusErr.Code)
		}
		return "NETWORK"
	}
}

// Runner 顺序执行翻译冒烟测试：先做连通性检查，再逐条跑用例，
// 单条失败只打印、不中断后续用例。
type Runner struct {
	client *avalai.Client
	config RunnerConfig
	out    io.Writer
	log    *zap.Logger

	// sleep 可注入，测试中替换掉真实停顿
	sleep func(time.Duration)
}

// NewRunner 创建冒烟测试运行器
func NewRunner(client *avalai.Client, cfg RunnerConfig, out io.Writer, log *zap.Logger) *Runner {
	cfg.applyDefaults()
	return &Runner{
		client: client,
		config: cfg,
		out:    out,
		log:    log,
		sleep:  time.Sleep,
	}
}

// RunCheck 执行一次连通性检查并打印结论
func (r *Runner) RunCheck(ctx context.Context) (avalai.Status, error) {
	fmt.Fprintln(r.out, "🔗 Testing API connectivity...")

	checkCtx, cancel := context.WithTimeout(ctx, r.config.CheckTimeout)
	defer cancel()

	status, err := r.client.CheckConnectivity(checkCtx)
	if err != nil {
		pterm.Error.WithWriter(r.out).Printfln("Connection failed: %v", err)
		r.log.Error("连通性检查失败", zap.Error(err))
		return avalai.Status{}, err
	}

	fmt.Fprintf(r.out, "Status: %d\n", status.Code)
	if status.Valid {
		pterm.Success.WithWriter(r.out).Println(status.Message)
	} else {
		pterm.Error.WithWriter(r.out).Println(status.Message)
	}
	if status.Body != "" {
		fmt.Fprintln(r.out, "Response:", status.Body)
	}
	return status, nil
}

// Run 顺序执行全部用例并打印汇总表，返回逐条结果。
// 进程层面永远正常返回：用例失败体现在 Result.Err 里。
func (r *Runner) Run(ctx context.Context) []Result {
	pterm.DefaultSection.WithWriter(r.out).Println("🧪 Testing AvalaAI Translation API")

	results := make([]Result, 0, len(r.config.Cases))
	for i, tc := range r.config.Cases {
		fmt.Fprintf(r.out, "\nTest %d: %s\n", i+1, tc.Name)
		fmt.Fprintf(r.out, "Persian Input: %s\n", tc.Persian)
		fmt.Fprintln(r.out, "📤 Sending request...")

		results = append(results, r.runCase(ctx, tc))

		fmt.Fprintln(r.out, strings.Repeat("-", 50))
		if i < len(r.config.Cases)-1 {
			r.sleep(r.config.Delay)
		}
	}

	r.printSummary(results)
	fmt.Fprintln(r.out, "\n🏁 Test completed!")
	return results
}

func (r *Runner) runCase(ctx context.Context, tc Case) Result {
	callCtx, cancel := context.WithTimeout(ctx, r.config.CallTimeout)
	defer cancel()

	translation, stats, err := r.client.Respond(callCtx, TranslatePromptPrefix+tc.Persian)

	result := Result{
		Case:        tc,
		StatusCode:  stats.StatusCode,
		Elapsed:     stats.Elapsed,
		Translation: translation,
		Err:         err,
	}

	fmt.Fprintf(r.out, "⏱️  Response time: %.2fms\n", stats.ElapsedMS())
	if stats.StatusCode != 0 {
		fmt.Fprintf(r.out, "📥 Status code: %d\n", stats.StatusCode)
	}

	switch {
	case err == nil:
		pterm.Success.WithWriter(r.out).Println("Success!")
		fmt.Fprintf(r.out, "🔤 Translation: '%s'\n", translation)
		fmt.Fprintf(r.out, "📏 Length: %d characters\n", len([]rune(translation)))
		if translation == "" {
			pterm.Warning.WithWriter(r.out).Println("Translation is empty!")
		}
	case avalai.IsTimeout(err):
		pterm.Error.WithWriter(r.out).Printfln("Request timed out (%s)", r.config.CallTimeout)
		r.log.Warn("请求超时", zap.String("case", tc.Name))
	case errors.Is(err, avalai.ErrMissingOutputText):
		pterm.Error.WithWriter(r.out).Println("No 'output_text' field in response")
	default:
		var statusErr *avalai.StatusError
		if errors.As(err, &statusErr) {
			pterm.Error.WithWriter(r.out).Printfln("Error response (status %d):", statusErr.Code)
			fmt.Fprintln(r.out, statusErr.Body)
		} else {
			pterm.Error.WithWriter(r.out).Printfln("Network error: %v", err)
		}
		r.log.Warn("用例失败", zap.String("case", tc.Name), zap.Error(err))
	}

	return result
}

func (r *Runner) printSummary(results []Result) {
	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.AppendHeader(table.Row{"#", "Case", "Status", "Latency", "Translation"})
	for i, res := range results {
		translation := res.Translation
		if res.Err != nil {
			translation = "-"
		}
		tw.AppendRow(table.Row{
			i + 1,
			res.Case.Name,
			res.Outcome(),
			fmt.Sprintf("%.2fms", float64(res.Elapsed.Microseconds())/1000.0),
			translation,
		})
	}
	tw.SetStyle(table.StyleLight)
	fmt.Fprintln(r.out)
	tw.Render()
}

// OneShot 执行单次 chat 形态的翻译并打印提取出的文本
func (r *Runner) OneShot(ctx context.Context, input string) (string, error) {
	if input == "" {
		input = DefaultOneShotInput
	}

	callCtx, cancel := context.WithTimeout(ctx, r.config.CallTimeout)
	defer cancel()

	content, err := r.client.Chat(callCtx, ChatSystemPrompt, input)
	if err != nil {
		pterm.Error.WithWriter(r.out).Printfln("Translation failed: %v", err)
		r.log.Error("单次翻译失败", zap.Error(err))
		return "", err
	}

	pterm.Success.WithWriter(r.out).Println("Translation:")
	fmt.Fprintln(r.out, content)
	return content, nil
}
