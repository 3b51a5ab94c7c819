package adb

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultWifiPort is the tcpip port adb listens on after `adb tcpip`
const DefaultWifiPort = 5555

// DeviceIP returns the wlan address the device routes from
func (c *Client) DeviceIP(ctx context.Context, serial string) (string, error) {
	out, err := c.Shell(ctx, serial, "ip route")
	if err != nil {
		return "", err
	}
	ip := parseDeviceIP(out)
	if ip == "" {
		return "", fmt.Errorf("no network address reported by %s", serial)
	}
	return ip, nil
}

// ConnectWifi switches the device to tcpip mode and connects to it over the network.
// settle is how long the device gets to restart its adb daemon.
func (c *Client) ConnectWifi(ctx context.Context, serial string, settle time.Duration) (string, error) {
	ip, err := c.DeviceIP(ctx, serial)
	if err != nil {
		return "", err
	}

	if _, err := c.Run(ctx, "-s", serial, "tcpip", fmt.Sprint(DefaultWifiPort)); err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(settle):
	}

	addr := fmt.Sprintf("%s:%d", ip, DefaultWifiPort)
	out, err := c.Run(ctx, "connect", addr)
	if err != nil {
		return "", err
	}
	logrus.Infof("adb: %s", out)
	return addr, nil
}
