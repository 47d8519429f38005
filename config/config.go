package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config — вся конфигурация сервиса. Загружается и проверяется один раз
// при старте; дальше только читается.
type Config struct {
	Addr       string `mapstructure:"addr"`
	PolicyMode string `mapstructure:"policy_mode"`

	// Веса риска по типам находок.
	Weights map[string]float64 `mapstructure:"weights"`

	Detect struct {
		FaceConf     float64 `mapstructure:"face_conf"`
		LandmarkConf float64 `mapstructure:"landmark_conf"`
		DedupIoU     float64 `mapstructure:"dedup_iou"` // 0 — схлопывание выключено
	} `mapstructure:"detect"`

	Redaction struct {
		ConfThreshold float64 `mapstructure:"conf_threshold"`
		Backend       string  `mapstructure:"backend"` // diffusion | infill
		MaxSide       int     `mapstructure:"max_side"`
		Multiple      int     `mapstructure:"multiple"`
	} `mapstructure:"redaction"`

	Sampler struct {
		FPSCap     float64 `mapstructure:"fps_cap"`
		Stride     int     `mapstructure:"stride"`
		PadFrames  int     `mapstructure:"pad_frames"`
		HistThresh float64 `mapstructure:"hist_thresh"`
	} `mapstructure:"sampler"`

	Services struct {
		OCRURL       string `mapstructure:"ocr_url"`
		OCRLang      string `mapstructure:"ocr_lang"` // язык локального tesseract

		DetectorURL  string `mapstructure:"detector_url"`
		SegmenterURL string `mapstructure:"segmenter_url"`
		InpainterURL string `mapstructure:"inpainter_url"`
		TimeoutSec   int    `mapstructure:"timeout_sec"`
	} `mapstructure:"services"`

	Video struct {
		MaxScans int64 `mapstructure:"max_scans"` // одновременных сканирований
	} `mapstructure:"video"`

	Logger struct {
		Level   string `mapstructure:"level"`
		Format  string `mapstructure:"format"` // json | console
		LogFile string `mapstructure:"log_file"`
		MaxSize int    `mapstructure:"max_size"` // МБ до ротации
	} `mapstructure:"logger"`
}

// Load читает конфигурацию: значения по умолчанию, затем YAML-файл
// (если указан), затем переменные окружения OBSCURA_*.
func Load(path string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("OBSCURA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("policy_mode", "strict")

	v.SetDefault("weights", map[string]float64{
		"face":          30,
		"email":         10,
		"phone":         10,
		"credit_card":   40,
		"address_text":  15,
		"dob":           20,
		"national_id":   35,
		"passport":      35,
		"iban":          30,
		"bic":           20,
		"license_plate": 25,
		"document_id":   35,
		"address_sign":  15,
	})

	v.SetDefault("detect.face_conf", 0.5)
	v.SetDefault("detect.landmark_conf", 0.25)
	v.SetDefault("detect.dedup_iou", 0.0)

	v.SetDefault("redaction.conf_threshold", 0.70)
	v.SetDefault("redaction.backend", "diffusion")
	v.SetDefault("redaction.max_side", 1024)
	v.SetDefault("redaction.multiple", 64)

	v.SetDefault("sampler.fps_cap", 24.0)
	v.SetDefault("sampler.stride", 100)
	v.SetDefault("sampler.pad_frames", 6)
	v.SetDefault("sampler.hist_thresh", 0.30)

	v.SetDefault("services.ocr_lang", "eng")
	v.SetDefault("services.timeout_sec", 60)
	v.SetDefault("video.max_scans", 2)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.max_size", 100)
}

// Validate проверяет согласованность конфигурации.
func (c *Config) Validate() error {
	for kind, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("weight for %q must be non-negative, got %v", kind, w)
		}
	}
	if c.Redaction.ConfThreshold < 0 || c.Redaction.ConfThreshold > 1 {
		return fmt.Errorf("redaction.conf_threshold must be in [0,1], got %v", c.Redaction.ConfThreshold)
	}
	if c.Redaction.Backend != "diffusion" && c.Redaction.Backend != "infill" {
		return fmt.Errorf("redaction.backend must be diffusion or infill, got %q", c.Redaction.Backend)
	}
	if c.Redaction.MaxSide < 1 {
		return fmt.Errorf("redaction.max_side must be positive, got %d", c.Redaction.MaxSide)
	}
	if c.Redaction.Multiple < 1 {
		return fmt.Errorf("redaction.multiple must be positive, got %d", c.Redaction.Multiple)
	}
	if c.Sampler.Stride < 0 {
		return fmt.Errorf("sampler.stride must be non-negative, got %d", c.Sampler.Stride)
	}
	if c.Sampler.PadFrames < 0 {
		return fmt.Errorf("sampler.pad_frames must be non-negative, got %d", c.Sampler.PadFrames)
	}
	if c.Video.MaxScans < 1 {
		return fmt.Errorf("video.max_scans must be positive, got %d", c.Video.MaxScans)
	}
	return nil
}
