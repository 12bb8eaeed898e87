package config

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	InputPath    string      `yaml:"input"`
	OutputPath   string      `yaml:"output"`
	OutputDir    string      `yaml:"output_dir"`
	Color        string      `yaml:"color"`
	Target       color.NRGBA `yaml:"-"`
	Format       string      `yaml:"format"`
	ListName     string      `yaml:"name"`
	Order        string      `yaml:"order"`
	Detector     string      `yaml:"detector"`
	Bands        int         `yaml:"bands"`
	Workers      int         `yaml:"workers"`
	DPI          int         `yaml:"dpi"`
	QRSize       int         `yaml:"qr_size"`
	ShowStats    bool        `yaml:"stats"`
	BuildVersion string      `yaml:"-"`
}

// Default returns the configuration used when nothing else is given. The
// target colour is opaque red.
func Default() *Config {
	return &Config{
		OutputDir: "output",
		Color:     "#ff0000ff",
		Format:    "ts",
		ListName:  "hotspots",
		Order:     "column",
		Detector:  "exact",
		Bands:     runtime.NumCPU(),
		Workers:   runtime.NumCPU(),
		DPI:       72,
		QRSize:    256,
	}
}

// Load overlays the YAML file at path onto cfg. Keys missing from the file
// keep their current values.
func Load(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("ошибка разбора %s: %w", path, err)
	}
	return nil
}

// ApplyEnv reads an optional .env file and applies HOTSPOTS_* variables.
func (c *Config) ApplyEnv() {
	// .env is optional
	_ = godotenv.Load()

	for key, dst := range map[string]*string{
		"HOTSPOTS_COLOR":    &c.Color,
		"HOTSPOTS_FORMAT":   &c.Format,
		"HOTSPOTS_NAME":     &c.ListName,
		"HOTSPOTS_ORDER":    &c.Order,
		"HOTSPOTS_DETECTOR": &c.Detector,
	} {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
}

// RegisterFlags defines the command line flags that override Config fields.
// Their defaults come from Default.
func RegisterFlags(fs *flag.FlagSet) {
	def := Default()
	fs.String("input", "", "Изображение, PDF, папка с изображениями или qr:<текст> (по умолчанию: самый свежий файл в input/)")
	fs.String("output", "", "Файл результата (если пусто, имя строится из входного файла в -output-dir)")
	fs.String("output-dir", def.OutputDir, "Папка для автоматически названных результатов")
	fs.String("color", def.Color, "Целевой цвет: #rrggbb, #rrggbbaa или r,g,b[,a]")
	fs.String("format", def.Format, "Формат результата: ts, js, yaml")
	fs.String("name", def.ListName, "Имя экспортируемого списка")
	fs.String("order", def.Order, "Порядок обхода: column, row")
	fs.String("detector", def.Detector, "Детектор: exact, banded")
	fs.Int("bands", def.Bands, "Число полос для детектора banded")
	fs.Int("workers", def.Workers, "Потоки (страниц одновременно)")
	fs.Int("dpi", def.DPI, "DPI растеризации PDF")
	fs.Int("qr-size", def.QRSize, "Размер QR-кода в пикселях (0 - пиксель на модуль)")
	fs.Bool("stats", false, "Показать отчёт о производительности")
}

// Resolve layers the YAML file (skipped when file is empty), HOTSPOTS_*
// variables and the flags explicitly set on fs over c, in that order.
func (c *Config) Resolve(file string, fs *flag.FlagSet) error {
	if file != "" {
		if err := Load(file, c); err != nil {
			return err
		}
	}
	c.ApplyEnv()
	return c.ApplyFlags(fs)
}

// ApplyFlags copies only the flags that were set on the command line, so
// defaults of unset flags never mask the file or the environment.
func (c *Config) ApplyFlags(fs *flag.FlagSet) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err == nil {
			err = c.setFlag(f.Name, f.Value.String())
		}
	})
	return err
}

func (c *Config) setFlag(name, value string) error {
	var err error
	switch name {
	case "input":
		c.InputPath = value
	case "output":
		c.OutputPath = value
	case "output-dir":
		c.OutputDir = value
	case "color":
		c.Color = value
	case "format":
		c.Format = value
	case "name":
		c.ListName = value
	case "order":
		c.Order = value
	case "detector":
		c.Detector = value
	case "bands":
		c.Bands, err = strconv.Atoi(value)
	case "workers":
		c.Workers, err = strconv.Atoi(value)
	case "dpi":
		c.DPI, err = strconv.Atoi(value)
	case "qr-size":
		c.QRSize, err = strconv.Atoi(value)
	case "stats":
		c.ShowStats, err = strconv.ParseBool(value)
	}
	if err != nil {
		return fmt.Errorf("флаг -%s: %w", name, err)
	}
	return nil
}

// Validate parses Color into Target and rejects unusable settings.
func (c *Config) Validate() error {
	target, err := ParseColor(c.Color)
	if err != nil {
		return err
	}
	c.Target = target

	switch c.Format {
	case "ts", "js", "yaml":
	default:
		return fmt.Errorf("неизвестный формат %q (допустимо: ts, js, yaml)", c.Format)
	}
	switch c.Order {
	case "column", "row":
	default:
		return fmt.Errorf("неизвестный порядок обхода %q (допустимо: column, row)", c.Order)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("число потоков должно быть положительным, получено %d", c.Workers)
	}
	if c.Bands <= 0 {
		return fmt.Errorf("число полос должно быть положительным, получено %d", c.Bands)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("DPI должен быть положительным, получено %d", c.DPI)
	}
	return nil
}

// ParseColor accepts #rrggbb, #rrggbbaa or a comma separated r,g,b[,a] list
// of decimal channels. A missing alpha means fully opaque.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)

	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) != 6 && len(hex) != 8 {
			return color.NRGBA{}, fmt.Errorf("некорректный hex-цвет %q", s)
		}
		if len(hex) == 6 {
			hex += "ff"
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("некорректный hex-цвет %q: %w", s, err)
		}
		return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, fmt.Errorf("некорректный цвет %q (допустимо: #rrggbb[aa] или r,g,b[,a])", s)
	}
	ch := [4]uint8{0, 0, 0, 255}
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("некорректный канал %q в цвете %q", p, s)
		}
		ch[i] = uint8(v)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}
