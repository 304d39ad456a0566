package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/delaneyj/fiberparty/fauxdom"
	"github.com/delaneyj/fiberparty/fiber"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

type scenario struct {
	Name    string `yaml:"name"`
	Width   int    `yaml:"width"`
	Depth   int    `yaml:"depth"`
	Updates int    `yaml:"updates"`
}

type scenarioFile struct {
	Scenarios []scenario `yaml:"scenarios"`
}

var defaultScenarios = []scenario{
	{Name: "tiny", Width: 1, Depth: 1, Updates: 100},
	{Name: "wide", Width: 1_000, Depth: 1, Updates: 100},
	{Name: "deep", Width: 1, Depth: 1_000, Updates: 100},
	{Name: "square", Width: 100, Depth: 100, Updates: 100},
}

func main() {
	scenariosPath := flag.String("scenarios", "", "yaml file with benchmark scenarios")
	cpuProfile := flag.String("cpuprofile", "default.pgo", "cpu profile output, empty to disable")
	flag.Parse()

	scenarios := defaultScenarios
	if *scenariosPath != "" {
		loaded, err := loadScenarios(*scenariosPath)
		if err != nil {
			log.Fatal(err)
		}
		scenarios = loaded
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")

	benchmarkMount(scenarios, true)
	benchmarkUpdate(scenarios, true)
	benchmarkReorder(scenarios, true)
}

func loadScenarios(path string) ([]scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}
	var file scenarioFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios in %s", path)
	}
	return file.Scenarios, nil
}

func immediateRoot() (*fauxdom.Container, *fauxdom.Root) {
	rec := fauxdom.NewReconciler(fauxdom.MemoryHost{})
	rs := fiber.CreateRenderSystem(rec, nil, func(err error) {
		log.Panic(err)
	})
	container := &fauxdom.Container{}
	return container, fauxdom.CreateRoot(rs, rec, container)
}

// buildTree makes width keyed branches each depth levels deep, with rev
// stamped into attrs and leaves so successive revisions differ everywhere.
func buildTree(width, depth, rev int) fauxdom.Element {
	kids := make([]fauxdom.Element, 0, width)
	for i := 0; i < width; i++ {
		kids = append(kids, branch(i, depth, rev))
	}
	return fauxdom.El("div", fauxdom.A{"rev": strconv.Itoa(rev)}, kids...)
}

func branch(i, depth, rev int) fauxdom.Element {
	if depth <= 1 {
		return fauxdom.Keyed("p", fmt.Sprintf("b%d", i), nil,
			fauxdom.Text(fmt.Sprintf("leaf %d rev %d", i, rev)))
	}
	return fauxdom.Keyed("div", fmt.Sprintf("b%d", i), nil, branch(i, depth-1, rev))
}

func nodeCount(sc scenario) string {
	return humanize.Comma(int64(sc.Width*(sc.Depth+1) + 1))
}

func benchmarkMount(scenarios []scenario, shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Mount")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "nodes", "avg", "min", "p75", "p99", "max"})

	for _, sc := range scenarios {
		tach := tachymeter.New(&tachymeter.Config{Size: sc.Updates})

		for i := 0; i < sc.Updates; i++ {
			_, root := immediateRoot()
			el := buildTree(sc.Width, sc.Depth, i)

			start := time.Now()
			root.Render(el)
			tach.AddTime(time.Since(start))
		}

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("mount: %s %d * %d", sc.Name, sc.Width, sc.Depth),
				nodeCount(sc),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			},
		})
	}

	if shouldRender {
		tbl.Render()
	}
}

func benchmarkUpdate(scenarios []scenario, shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Update")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "nodes", "avg", "min", "p75", "p99", "max"})

	for _, sc := range scenarios {
		tach := tachymeter.New(&tachymeter.Config{Size: sc.Updates})

		_, root := immediateRoot()
		root.Render(buildTree(sc.Width, sc.Depth, 0))

		for i := 1; i <= sc.Updates; i++ {
			el := buildTree(sc.Width, sc.Depth, i)

			start := time.Now()
			root.Render(el)
			tach.AddTime(time.Since(start))
		}

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("update: %s %d * %d", sc.Name, sc.Width, sc.Depth),
				nodeCount(sc),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			},
		})
	}

	if shouldRender {
		tbl.Render()
	}
}

func benchmarkReorder(scenarios []scenario, shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Keyed Reorder")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "nodes", "avg", "min", "p75", "p99", "max"})

	for _, sc := range scenarios {
		tach := tachymeter.New(&tachymeter.Config{Size: sc.Updates})

		_, root := immediateRoot()
		root.Render(rotatedList(sc.Width, 0))

		for i := 1; i <= sc.Updates; i++ {
			el := rotatedList(sc.Width, i)

			start := time.Now()
			root.Render(el)
			tach.AddTime(time.Since(start))
		}

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("reorder: %s %d", sc.Name, sc.Width),
				humanize.Comma(int64(sc.Width + 1)),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			},
		})
	}

	if shouldRender {
		tbl.Render()
	}
}

// rotatedList keeps the same keyed children and rotates their order by
// rev, so every render is all moves and no mounts.
func rotatedList(width, rev int) fauxdom.Element {
	kids := make([]fauxdom.Element, 0, width)
	for i := 0; i < width; i++ {
		k := (i + rev) % width
		key := "item" + strconv.Itoa(k)
		kids = append(kids, fauxdom.Keyed("li", key, nil, fauxdom.Text(key)))
	}
	return fauxdom.El("ul", nil, kids...)
}
