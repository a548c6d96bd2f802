// SPDX-License-Identifier: EPL-2.0

// Package classify runs the gated gender → language → emotion decision over
// a feature vector.
//
// A clip must be judged Female before the language scorer runs, and
// English before the emotion scorer runs. Each decision is the arg-max of
// the scorer's output, ties going to the earlier label. The outcome is a
// Result whose Message is one of:
//
//	Predicted emotion: <Label>
//	Please upload a female voice
//	Please upload an English voice note
//	File conversion failed
//	Feature extraction failed
//	Prediction failed
package classify
