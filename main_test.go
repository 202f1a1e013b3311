package main

import (
	"net"
	"testing"
	"time"
)

func TestListenAddr(t *testing.T) {
	tests := []struct {
		name    string
		listen  string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "default", listen: "0.0.0.0:9150", want: "0.0.0.0:9150"},
		{name: "positional port", listen: "0.0.0.0:9150", args: []string{"1080"}, want: "0.0.0.0:1080"},
		{name: "positional keeps host", listen: "127.0.0.1:9150", args: []string{"1080"}, want: "127.0.0.1:1080"},
		{name: "too many args", listen: "0.0.0.0:9150", args: []string{"1080", "1081"}, wantErr: true},
		{name: "non-numeric port", listen: "0.0.0.0:9150", args: []string{"http"}, wantErr: true},
		{name: "port zero", listen: "0.0.0.0:9150", args: []string{"0"}, wantErr: true},
		{name: "port out of range", listen: "0.0.0.0:9150", args: []string{"70000"}, wantErr: true},
		{name: "missing port in listen", listen: "0.0.0.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := listenAddr(tt.listen, tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestParseTCPKeepAlive(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    net.KeepAliveConfig
		wantErr bool
	}{
		{name: "on", in: "on", want: net.KeepAliveConfig{Enable: true}},
		{name: "off", in: "off", want: net.KeepAliveConfig{Enable: false}},
		{
			name: "tuned",
			in:   "45:45:3",
			want: net.KeepAliveConfig{Enable: true, Idle: 45 * time.Second, Interval: 45 * time.Second, Count: 3},
		},
		{name: "case and spaces", in: " ON ", want: net.KeepAliveConfig{Enable: true}},
		{name: "empty", in: "", wantErr: true},
		{name: "two fields", in: "45:45", wantErr: true},
		{name: "zero idle", in: "0:45:3", wantErr: true},
		{name: "negative count", in: "45:45:-1", wantErr: true},
		{name: "non-numeric", in: "a:b:c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTCPKeepAlive(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("got %+v want %+v", got, tt.want)
			}
		})
	}
}
