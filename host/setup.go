package host

import (
	"github.com/charmbracelet/log"

	"github.com/openspeechd/sd-viavoice/config"
	"github.com/openspeechd/sd-viavoice/engine"
)

// ConfigureEngine applies the loaded configuration to a fresh engine
// handle and returns the sample rate the engine actually runs at. The
// configured preset voice is tuned first, then copied into the active
// voice slot. Dictionary load failures are logged and skipped; the
// engine speaks fine without them.
func ConfigureEngine(eng engine.Engine, cfg config.Config) int {
	if code := engine.RateCode(cfg.SampleRate); code >= 0 {
		eng.SetParam(engine.ParamSampleRate, code)
	}
	rate := engine.SampleRateHz(eng.GetParam(engine.ParamSampleRate))
	if rate == 0 {
		rate = cfg.SampleRate
	}

	// Preset voices are 1-based in the native API; slot 0 is the
	// working voice synthesis reads from.
	preset := cfg.DefaultVoice + 1
	applyVoiceParams(eng, preset, cfg)
	eng.CopyVoice(preset, 0)

	setIfConfigured(eng, engine.ParamTextMode, cfg.TextMode)
	setIfConfigured(eng, engine.ParamNumberMode, cfg.NumberMode)
	setIfConfigured(eng, engine.ParamRealWorldUnits, cfg.RealWorldUnits)
	setIfConfigured(eng, engine.ParamPhrasePredict, cfg.PhrasePrediction)

	loadDictionaries(eng, cfg)

	log.Debug("engine configured",
		"rate", rate,
		"voice", engine.PresetVoices[cfg.DefaultVoice])
	return rate
}

// ApplyVoiceConfig re-applies the tunable voice parameters to the
// active voice. Used when the config file changes at runtime.
func ApplyVoiceConfig(eng engine.Engine, cfg config.Config) {
	applyVoiceParams(eng, 0, cfg)
}

func applyVoiceParams(eng engine.Engine, voice int, cfg config.Config) {
	params := []struct {
		p engine.VoiceParam
		v int
	}{
		{engine.VoiceHeadSize, cfg.HeadSize},
		{engine.VoicePitchBaseline, cfg.PitchBaseline},
		{engine.VoicePitchFluctuation, cfg.PitchFluctuation},
		{engine.VoiceRoughness, cfg.Roughness},
		{engine.VoiceBreathiness, cfg.Breathiness},
		{engine.VoiceSpeed, cfg.Speed},
		{engine.VoiceVolume, cfg.Volume},
	}
	for _, p := range params {
		if p.v != config.Unset {
			eng.SetVoiceParam(voice, p.p, p.v)
		}
	}
}

func setIfConfigured(eng engine.Engine, p engine.Param, v int) {
	if v != config.Unset {
		eng.SetParam(p, v)
	}
}

func loadDictionaries(eng engine.Engine, cfg config.Config) {
	loader, ok := eng.(engine.DictionaryLoader)
	if !ok {
		return
	}

	dicts := []struct {
		kind engine.DictKind
		path string
	}{
		{engine.MainDict, cfg.MainDict},
		{engine.RootDict, cfg.RootDict},
		{engine.AbbrevDict, cfg.AbbrevDict},
	}
	loaded := false
	for _, d := range dicts {
		if d.path == "" {
			continue
		}
		if err := loader.LoadDictionary(d.kind, d.path); err != nil {
			log.Warn("dictionary load failed", "path", d.path, "err", err)
			continue
		}
		loaded = true
	}
	if loaded {
		if err := loader.ActivateDictionaries(); err != nil {
			log.Warn("dictionary activation failed", "err", err)
		}
	}
}
