// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package regstack

// RaceEnabled is true when the race detector is active.
// Used by tests to skip concurrent pool tests, where chunk handoff through
// the free list is ordered by atomix operations the detector cannot see.
const RaceEnabled = true
