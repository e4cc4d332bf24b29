/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// DefaultEC2Operations provides EC2 operations over the SDK client
type DefaultEC2Operations struct {
	client EC2Client
}

// NewEC2OperationsWithClient creates operations with a custom client (for testing)
func NewEC2OperationsWithClient(client EC2Client) *DefaultEC2Operations {
	return &DefaultEC2Operations{
		client: client,
	}
}

// DescribeInstance resolves an instance id to its network addresses
func (e *DefaultEC2Operations) DescribeInstance(ctx context.Context, instanceID string) (*Instance, error) {
	result, err := e.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		if hasErrorCode(err, codeInvalidInstanceIDNotFound, codeInvalidInstanceIDMalformed) {
			return nil, fmt.Errorf("%w: %s: %w", ErrInstanceNotFound, instanceID, err)
		}
		return nil, fmt.Errorf("failed to describe instance %s: %w", instanceID, err)
	}

	for _, reservation := range result.Reservations {
		for _, inst := range reservation.Instances {
			if aws.ToString(inst.InstanceId) != instanceID {
				continue
			}

			instance := &Instance{
				ID:             instanceID,
				PublicAddress:  aws.ToString(inst.PublicIpAddress),
				PrivateAddress: aws.ToString(inst.PrivateIpAddress),
			}
			if inst.State != nil {
				instance.State = string(inst.State.Name)
			}
			return instance, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrInstanceNotFound, instanceID)
}

// CreateImage requests a machine image from an instance and returns the image id
func (e *DefaultEC2Operations) CreateImage(ctx context.Context, input CreateImageInput) (string, error) {
	params := &ec2.CreateImageInput{
		InstanceId: aws.String(input.InstanceID),
		Name:       aws.String(input.Name),
	}
	if input.Description != "" {
		params.Description = aws.String(input.Description)
	}
	if len(input.Tags) > 0 {
		tags := convertTags(input.Tags)
		params.TagSpecifications = []types.TagSpecification{
			{ResourceType: types.ResourceTypeImage, Tags: tags},
			{ResourceType: types.ResourceTypeSnapshot, Tags: tags},
		}
	}

	result, err := e.client.CreateImage(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create image from instance %s: %w", input.InstanceID, err)
	}

	imageID := aws.ToString(result.ImageId)
	if imageID == "" {
		return "", fmt.Errorf("no image id returned for instance %s", input.InstanceID)
	}

	return imageID, nil
}

// WaitForImage blocks until the image is available, the image fails or timeout elapses
func (e *DefaultEC2Operations) WaitForImage(ctx context.Context, imageID string, timeout time.Duration) error {
	waiter := ec2.NewImageAvailableWaiter(e.client)

	err := waiter.Wait(ctx, &ec2.DescribeImagesInput{
		ImageIds: []string{imageID},
	}, timeout)
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("stopped waiting for image %s: %w", imageID, err)
	case isWaitTimeout(err):
		return fmt.Errorf("image %s not available after %s: %w", imageID, timeout, ErrWaitTimeout)
	case isWaiterFailure(err):
		return fmt.Errorf("image %s: %w", imageID, ErrImageFailed)
	default:
		return fmt.Errorf("failed to wait for image %s: %w", imageID, err)
	}
}

// CreateLaunchTemplateVersion publishes a template version that only swaps the image
func (e *DefaultEC2Operations) CreateLaunchTemplateVersion(ctx context.Context, input TemplateVersionInput) (int64, error) {
	source := input.SourceVersion
	if source == "" {
		source = LatestVersion
	}

	params := &ec2.CreateLaunchTemplateVersionInput{
		LaunchTemplateId: aws.String(input.LaunchTemplateID),
		SourceVersion:    aws.String(source),
		LaunchTemplateData: &types.RequestLaunchTemplateData{
			ImageId: aws.String(input.ImageID),
		},
	}
	if input.Description != "" {
		params.VersionDescription = aws.String(input.Description)
	}

	result, err := e.client.CreateLaunchTemplateVersion(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("failed to create version of launch template %s: %w", input.LaunchTemplateID, err)
	}

	if result.LaunchTemplateVersion == nil {
		return 0, fmt.Errorf("no version returned for launch template %s", input.LaunchTemplateID)
	}

	return aws.ToInt64(result.LaunchTemplateVersion.VersionNumber), nil
}

// TerminateInstance terminates an instance
func (e *DefaultEC2Operations) TerminateInstance(ctx context.Context, instanceID string) error {
	_, err := e.client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return fmt.Errorf("failed to terminate instance %s: %w", instanceID, err)
	}

	return nil
}

// convertTags converts a tag map to EC2 tags in a stable order
func convertTags(tags map[string]string) []types.Tag {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]types.Tag, 0, len(tags))
	for _, k := range keys {
		result = append(result, types.Tag{
			Key:   aws.String(k),
			Value: aws.String(tags[k]),
		})
	}
	return result
}
