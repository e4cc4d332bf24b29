/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

// AutoScalingClient defines the subset of the Auto Scaling API used by rebake
// This allows for easier testing with mock implementations
type AutoScalingClient interface {
	DescribeAutoScalingGroups(ctx context.Context, params *autoscaling.DescribeAutoScalingGroupsInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DescribeAutoScalingGroupsOutput, error)
	DetachInstances(ctx context.Context, params *autoscaling.DetachInstancesInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DetachInstancesOutput, error)
	StartInstanceRefresh(ctx context.Context, params *autoscaling.StartInstanceRefreshInput, optFns ...func(*autoscaling.Options)) (*autoscaling.StartInstanceRefreshOutput, error)
	CancelInstanceRefresh(ctx context.Context, params *autoscaling.CancelInstanceRefreshInput, optFns ...func(*autoscaling.Options)) (*autoscaling.CancelInstanceRefreshOutput, error)
	DescribeInstanceRefreshes(ctx context.Context, params *autoscaling.DescribeInstanceRefreshesInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DescribeInstanceRefreshesOutput, error)
}

// EC2Client defines the subset of the EC2 API used by rebake
type EC2Client interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	CreateImage(ctx context.Context, params *ec2.CreateImageInput, optFns ...func(*ec2.Options)) (*ec2.CreateImageOutput, error)
	DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
	CreateLaunchTemplateVersion(ctx context.Context, params *ec2.CreateLaunchTemplateVersionInput, optFns ...func(*ec2.Options)) (*ec2.CreateLaunchTemplateVersionOutput, error)
	TerminateInstances(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
}

// Ensure that the actual SDK clients implement our interfaces
var (
	_ AutoScalingClient = (*autoscaling.Client)(nil)
	_ EC2Client         = (*ec2.Client)(nil)
)

// Ensure that the default operations implement their interfaces
var (
	_ AutoScalingOperations = (*DefaultAutoScalingOperations)(nil)
	_ EC2Operations         = (*DefaultEC2Operations)(nil)
	_ ClientFactory         = (*DefaultClientFactory)(nil)
)

// AutoScalingOperations defines the auto scaling control surface of the deployment
type AutoScalingOperations interface {
	DescribeGroup(ctx context.Context, groupName string) (*Group, error)
	DetachInstance(ctx context.Context, groupName, instanceID string, decrementCapacity bool) error
	StartInstanceRefresh(ctx context.Context, input StartRefreshInput) (string, error)
	CancelInstanceRefresh(ctx context.Context, groupName string) error
	ActiveInstanceRefresh(ctx context.Context, groupName string) (string, error)
}

// EC2Operations defines the compute control surface of the deployment
type EC2Operations interface {
	DescribeInstance(ctx context.Context, instanceID string) (*Instance, error)
	CreateImage(ctx context.Context, input CreateImageInput) (string, error)
	WaitForImage(ctx context.Context, imageID string, timeout time.Duration) error
	CreateLaunchTemplateVersion(ctx context.Context, input TemplateVersionInput) (int64, error)
	TerminateInstance(ctx context.Context, instanceID string) error
}

// Group represents an auto scaling group with the facts rebake needs
type Group struct {
	Name            string
	LaunchTemplate  *LaunchTemplate
	Members         []Member
	DesiredCapacity int32
	MinSize         int32
	MaxSize         int32
}

// LaunchTemplate identifies the launch template (and version) a group launches from
type LaunchTemplate struct {
	ID      string
	Name    string
	Version string
}

// Member is an instance belonging to an auto scaling group
type Member struct {
	InstanceID       string
	HealthStatus     string
	LifecycleState   string
	AvailabilityZone string
}

// Instance holds the network addresses of an EC2 instance
type Instance struct {
	ID             string
	State          string
	PublicAddress  string
	PrivateAddress string
}

// StartRefreshInput contains parameters for starting an instance refresh
type StartRefreshInput struct {
	GroupName            string
	LaunchTemplateID     string
	Version              string
	InstanceWarmup       int32
	MinHealthyPercentage int32
	SkipMatching         bool
}

// CreateImageInput contains parameters for creating a machine image from an instance
type CreateImageInput struct {
	InstanceID  string
	Name        string
	Description string
	Tags        map[string]string
}

// TemplateVersionInput contains parameters for publishing a launch template version
type TemplateVersionInput struct {
	LaunchTemplateID string
	SourceVersion    string
	ImageID          string
	Description      string
}
