/*
   Copyright 2026 Ridgewood Robotics

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package bht

import "testing"

func TestNodeStatusString(t *testing.T) {
	cases := map[NodeStatus]string{
		Idle:    "Idle",
		Running: "Running",
		Success: "Success",
		Failure: "Failure",
		Skipped: "Skipped",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", status, got, want)
		}
	}
}

func TestNodeStatusPredicates(t *testing.T) {
	if !Success.IsCompleted() || !Failure.IsCompleted() {
		t.Error("Success and Failure should be completed")
	}
	if Running.IsCompleted() || Idle.IsCompleted() || Skipped.IsCompleted() {
		t.Error("Running, Idle, and Skipped should not be completed")
	}
	if !Running.IsActive() {
		t.Error("Running should be active")
	}
	if Success.IsActive() || Failure.IsActive() || Idle.IsActive() {
		t.Error("Success, Failure, and Idle should not be active")
	}
}
