package main

import "testing"

func TestFlags_DefaultValues(t *testing.T) {
	if *portFlag != "/dev/ttyACM0" {
		t.Errorf("portFlag default = %q, want /dev/ttyACM0", *portFlag)
	}
	if *profileFlag != "production" {
		t.Errorf("profileFlag default = %q, want production", *profileFlag)
	}
	if *sidecarFlag != "" {
		t.Errorf("sidecarFlag default = %q, want empty", *sidecarFlag)
	}
	if *dbPathFlag != "hallgate.db" {
		t.Errorf("dbPathFlag default = %q, want hallgate.db", *dbPathFlag)
	}
}
