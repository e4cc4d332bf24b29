/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package progress

import (
	"fmt"
	"net/url"
)

// Hyperlink wraps text with terminal hyperlink escape codes (OSC 8).
// Terminals without hyperlink support show the text unchanged.
func Hyperlink(link, text string) string {
	if link == "" || text == "" {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", link, text)
}

// consoleBase returns the AWS console root for a service in region
func consoleBase(service, region string) string {
	return fmt.Sprintf("https://%s.console.aws.amazon.com/%s/home?region=%s", region, service, url.QueryEscape(region))
}

// ImageURL returns the console page of an image
func ImageURL(region, imageID string) string {
	if region == "" || imageID == "" {
		return ""
	}
	return consoleBase("ec2", region) + "#ImageDetails:imageId=" + url.QueryEscape(imageID)
}

// InstanceURL returns the console page of an instance
func InstanceURL(region, instanceID string) string {
	if region == "" || instanceID == "" {
		return ""
	}
	return consoleBase("ec2", region) + "#InstanceDetails:instanceId=" + url.QueryEscape(instanceID)
}

// LaunchTemplateURL returns the console page of a launch template
func LaunchTemplateURL(region, templateID string) string {
	if region == "" || templateID == "" {
		return ""
	}
	return consoleBase("ec2", region) + "#LaunchTemplateDetails:launchTemplateId=" + url.QueryEscape(templateID)
}

// RefreshURL returns the instance refresh tab of an auto scaling group
func RefreshURL(region, group string) string {
	if region == "" || group == "" {
		return ""
	}
	return consoleBase("ec2", region) + "#AutoScalingGroupDetails:id=" + url.QueryEscape(group) + ";view=instanceRefresh"
}
