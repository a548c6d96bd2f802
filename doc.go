// SPDX-License-Identifier: EPL-2.0

// Package audmood classifies the emotional tone of a female, English voice
// clip.
//
// An App loads three scorers once (gender, language, emotion) and runs
// each clip through the same steps:
//
//  1. Conversion: non-WAV uploads are decoded and written as 16 kHz mono
//     WAV next to the input (package normalize).
//  2. Features: 40 MFCC, 12 chroma and 128 mel-band means (package
//     features).
//  3. Gated inference: the emotion scorer only runs for clips judged
//     female and English (package classify).
//
// The outcome is a classify.Result whose Message is one of the fixed
// strings the CLI prints:
//
//	app, err := audmood.New(audmood.Config{
//		Gender:   model.Spec{Path: "models/gender.msgpack"},
//		Language: model.Spec{Path: "models/language.msgpack"},
//		Emotion:  model.Spec{Backend: model.BackendExec, Command: "python3 emotion.py"},
//		Features: features.DefaultConfig(),
//	})
//	if err != nil {
//		return err
//	}
//	fmt.Println(app.Predict(ctx, "clip.mp3"))
//
// Live input goes through a capture.Session, see PredictRecording.
//
// # Supported Formats
//
//   - WAV (integer PCM 8/16/24/32-bit, IEEE float 32/64-bit) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF (16/24/32-bit) via formats/aiff
package audmood
